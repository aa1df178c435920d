package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifyCheckoutSignature checks the signature the gateway attaches to a
// completed checkout. The signed payload is "<order_id>|<payment_id>" and
// the signature is hex-encoded HMAC-SHA256 under the key secret.
func VerifyCheckoutSignature(orderID, paymentID, signature, secret string) bool {
	sig := strings.TrimSpace(signature)
	key := strings.TrimSpace(secret)
	if orderID == "" || paymentID == "" || sig == "" || key == "" {
		return false
	}

	decodedSig, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hmac.Equal(mac.Sum(nil), decodedSig)
}

// VerifyWebhookSignature checks the signature the gateway attaches to a
// webhook delivery. The signed payload is the raw request body.
func VerifyWebhookSignature(payload []byte, signature, secret string) bool {
	sig := strings.TrimSpace(signature)
	key := strings.TrimSpace(secret)
	if len(payload) == 0 || sig == "" || key == "" {
		return false
	}

	decodedSig, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), decodedSig)
}
