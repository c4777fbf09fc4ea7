package gemini

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"testing"
)

func TestNewSignerRequiresCredentials(t *testing.T) {
	if _, err := NewSigner("", "secret"); err == nil {
		t.Fatal("expected error for missing key")
	}
	if _, err := NewSigner("key", ""); err == nil {
		t.Fatal("expected error for missing secret")
	}
}

func TestHeaders(t *testing.T) {
	signer, err := NewSigner("my-key", "my-secret")
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	payload := []byte(`{"request":"/v1/balances","nonce":42}`)
	headers := signer.Headers(payload)

	if headers["X-GEMINI-APIKEY"] != "my-key" {
		t.Fatalf("unexpected api key header %q", headers["X-GEMINI-APIKEY"])
	}
	decoded, err := base64.StdEncoding.DecodeString(headers["X-GEMINI-PAYLOAD"])
	if err != nil {
		t.Fatalf("payload is not base64: %v", err)
	}
	if string(decoded) != string(payload) {
		t.Fatalf("payload round trip mismatch: %s", decoded)
	}

	mac := hmac.New(sha512.New384, []byte("my-secret"))
	mac.Write([]byte(headers["X-GEMINI-PAYLOAD"]))
	want := hex.EncodeToString(mac.Sum(nil))
	if headers["X-GEMINI-SIGNATURE"] != want {
		t.Fatalf("signature mismatch: got %q want %q", headers["X-GEMINI-SIGNATURE"], want)
	}
}

func TestNextNonceStrictlyIncreases(t *testing.T) {
	signer, err := NewSigner("key", "secret")
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	last := signer.NextNonce()
	for i := 0; i < 1000; i++ {
		next := signer.NextNonce()
		if next <= last {
			t.Fatalf("nonce did not increase: %d then %d", last, next)
		}
		last = next
	}
}
