package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureKey is the parameter that carries the signature in signed payloads
const SignatureKey = "signature"

// GenerateSignature calculates the HMAC-SHA256 signature of a parameter set
// Signature = hex(HMAC-SHA256(ToQuery(params), secret))
func GenerateSignature(params map[string]interface{}, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(ToQuery(params)))
	return hex.EncodeToString(h.Sum(nil))
}

// SignatureValid pops the "signature" key from a copy of params, recomputes
// the signature over the rest and compares the two.
func SignatureValid(params map[string]interface{}, secret string) bool {
	rest := make(map[string]interface{}, len(params))
	for k, v := range params {
		rest[k] = v
	}
	supplied, ok := rest[SignatureKey].(string)
	if !ok {
		return false
	}
	delete(rest, SignatureKey)

	return ValidateSignature(rest, secret, supplied)
}

// ValidateSignature checks signature against the one computed for params
func ValidateSignature(params map[string]interface{}, secret, signature string) bool {
	expected := GenerateSignature(params, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
