package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/ruudy-sib/cupcount/internal/domain"
)

func TestSignatureVerifier(t *testing.T) {
	body := []byte(`{"type":"payment.created"}`)

	t.Run("disabled without key", func(t *testing.T) {
		v := NewSignatureVerifier("", "https://example.com/webhook")
		if v != nil {
			t.Fatal("expected nil verifier")
		}
		if err := v.Verify("", body); err != nil {
			t.Fatalf("nil verifier should accept, got %v", err)
		}
	})

	t.Run("url is part of the signed message", func(t *testing.T) {
		a := NewSignatureVerifier("key", "https://a.example.com/webhook")
		b := NewSignatureVerifier("key", "https://b.example.com/webhook")
		if err := a.Verify(b.Sign(body), body); !errors.Is(err, domain.ErrInvalidSignature) {
			t.Fatalf("expected ErrInvalidSignature, got %v", err)
		}
		if err := a.Verify(a.Sign(body), body); err != nil {
			t.Fatalf("expected valid signature, got %v", err)
		}
	})

	t.Run("matches a signature computed independently", func(t *testing.T) {
		mac := hmac.New(sha256.New, []byte("key"))
		mac.Write([]byte("https://example.com/webhook"))
		mac.Write(body)
		signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

		v := NewSignatureVerifier("key", "https://example.com/webhook")
		if got := v.Sign(body); got != signature {
			t.Fatalf("Sign() = %q, want %q", got, signature)
		}
		if err := v.Verify(signature, body); err != nil {
			t.Fatalf("expected valid signature, got %v", err)
		}
	})

	t.Run("truncated signature", func(t *testing.T) {
		v := NewSignatureVerifier("key", "https://example.com/webhook")
		raw, _ := base64.StdEncoding.DecodeString(v.Sign(body))
		short := base64.StdEncoding.EncodeToString(raw[:16])
		if err := v.Verify(short, body); !errors.Is(err, domain.ErrInvalidSignature) {
			t.Fatalf("expected ErrInvalidSignature, got %v", err)
		}
	})

	t.Run("tampered body", func(t *testing.T) {
		v := NewSignatureVerifier("key", "https://example.com/webhook")
		sig := v.Sign(body)
		if err := v.Verify(sig, []byte(`{"type":"payment.updated"}`)); !errors.Is(err, domain.ErrInvalidSignature) {
			t.Fatalf("expected ErrInvalidSignature, got %v", err)
		}
	})
}
