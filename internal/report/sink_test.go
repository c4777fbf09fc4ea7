package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"gemini-exec-bridge/internal/config"

	"go.uber.org/zap"
)

func testFields() config.ReportFields {
	return config.ReportFields{
		OrderType: "entry.1",
		Symbol:    "entry.2",
		Strike:    "entry.3",
		Amount:    "entry.4",
		Value:     "entry.5",
		Balance:   "entry.6",
	}
}

func TestSubmitDisabled(t *testing.T) {
	sink := newSink(config.ReportConfig{Enabled: false}, zap.NewNop(), nil)
	if err := sink.Submit(context.Background(), Record{}); err != nil {
		t.Fatalf("expected nil error when disabled, got %v", err)
	}
}

func TestSubmitMissingURL(t *testing.T) {
	sink := newSink(config.ReportConfig{Enabled: true, Fields: testFields()}, zap.NewNop(), nil)
	if err := sink.Submit(context.Background(), Record{}); err == nil {
		t.Fatal("expected error for missing form url")
	}
}

func TestSubmitPostsFormFields(t *testing.T) {
	var gotForm url.Values
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		gotForm = r.PostForm
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.ReportConfig{Enabled: true, FormURL: server.URL + "/formResponse", Fields: testFields()}
	sink := newSink(cfg, zap.NewNop(), server.Client())
	rec := Record{
		OrderType: "Buy",
		Symbol:    "ethusd",
		Strike:    "9.99600000",
		Amount:    "99.6",
		Value:     "996.00",
		Balance:   "$1,000.00",
	}
	if err := sink.Submit(context.Background(), rec); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected content type %q", gotContentType)
	}
	want := map[string]string{
		"entry.1": "Buy",
		"entry.2": "ethusd",
		"entry.3": "9.99600000",
		"entry.4": "99.6",
		"entry.5": "996.00",
		"entry.6": "$1,000.00",
	}
	for key, val := range want {
		if got := gotForm.Get(key); got != val {
			t.Fatalf("field %s: expected %q, got %q", key, val, got)
		}
	}
}

func TestSubmitIgnoresBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := config.ReportConfig{Enabled: true, FormURL: server.URL, Fields: testFields()}
	sink := newSink(cfg, zap.NewNop(), server.Client())
	// The response is logged, never validated.
	if err := sink.Submit(context.Background(), Record{OrderType: "Sell"}); err != nil {
		t.Fatalf("expected best-effort submit to swallow status, got %v", err)
	}
}
