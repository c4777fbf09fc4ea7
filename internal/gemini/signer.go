package gemini

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"sync/atomic"
	"time"
)

// Signer produces the authentication headers for Gemini's private REST
// API: the request payload is base64-encoded and signed with
// HMAC-SHA384 over the encoded form.
type Signer struct {
	apiKey    string
	secret    []byte
	lastNonce atomic.Uint64
}

func NewSigner(apiKey, apiSecret string) (*Signer, error) {
	if apiKey == "" {
		return nil, errors.New("api key is required")
	}
	if apiSecret == "" {
		return nil, errors.New("api secret is required")
	}
	return &Signer{
		apiKey: apiKey,
		secret: []byte(apiSecret),
	}, nil
}

// Headers signs a marshaled request payload.
func (s *Signer) Headers(payload []byte) map[string]string {
	encoded := base64.StdEncoding.EncodeToString(payload)
	mac := hmac.New(sha512.New384, s.secret)
	mac.Write([]byte(encoded))
	return map[string]string{
		"X-GEMINI-APIKEY":    s.apiKey,
		"X-GEMINI-PAYLOAD":   encoded,
		"X-GEMINI-SIGNATURE": hex.EncodeToString(mac.Sum(nil)),
	}
}

// NextNonce returns a strictly increasing nonce seeded from the wall
// clock. Gemini rejects any private request whose nonce does not
// exceed the previous one.
func (s *Signer) NextNonce() uint64 {
	for {
		next := uint64(time.Now().UnixMilli())
		last := s.lastNonce.Load()
		if next <= last {
			next = last + 1
		}
		if s.lastNonce.CompareAndSwap(last, next) {
			return next
		}
	}
}
