package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/ruudy-sib/cupcount/internal/domain"
)

// SignatureHeader carries the platform's HMAC of the notification.
const SignatureHeader = "X-Square-Hmacsha256-Signature"

// SignatureVerifier checks that a webhook was signed with the subscription's
// signature key. The signed message is the notification URL followed by the
// raw body.
type SignatureVerifier struct {
	key             []byte
	notificationURL string
}

// NewSignatureVerifier returns nil when key is empty, which disables verification.
func NewSignatureVerifier(key, notificationURL string) *SignatureVerifier {
	if key == "" {
		return nil
	}
	return &SignatureVerifier{
		key:             []byte(key),
		notificationURL: notificationURL,
	}
}

// Sign computes the base64 signature for body.
func (v *SignatureVerifier) Sign(body []byte) string {
	return base64.StdEncoding.EncodeToString(v.sum(body))
}

// sum is the raw HMAC-SHA256 of the notification URL followed by body.
func (v *SignatureVerifier) sum(body []byte) []byte {
	mac := hmac.New(sha256.New, v.key)
	mac.Write([]byte(v.notificationURL))
	mac.Write(body)
	return mac.Sum(nil)
}

// Verify compares signature against body in constant time. A nil verifier
// accepts everything.
func (v *SignatureVerifier) Verify(signature string, body []byte) error {
	if v == nil {
		return nil
	}
	if signature == "" {
		return fmt.Errorf("%w: missing %s header", domain.ErrInvalidSignature, SignatureHeader)
	}
	got, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}
	if !hmac.Equal(got, v.sum(body)) {
		return domain.ErrInvalidSignature
	}
	return nil
}
