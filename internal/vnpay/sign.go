package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"net/url"
	"sort"
	"strings"
)

// ErrInvalidSignature marks a callback whose secure hash does not match;
// nothing it carries can be trusted.
var ErrInvalidSignature = errors.New("invalid gateway signature")

// Canonicalize renders a parameter set into the exact byte sequence both
// sides sign: keys sorted lexicographically, values URL-encoded, pairs joined
// as key=value with '&'. Empty values and the hash fields themselves are
// skipped, so a parameter set extracted from a callback canonicalizes back to
// the string the gateway signed.
func Canonicalize(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" || k == paramSecureHash || k == paramSecureHashType {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}
	return b.String()
}

// Sign computes the HMAC-SHA512 of the canonical parameter string, rendered
// as lowercase hex.
func Sign(secret string, params map[string]string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(Canonicalize(params)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the signature over params and compares it to the
// supplied hash in constant time.
func VerifySignature(secret string, params map[string]string, secureHash string) bool {
	want := Sign(secret, params)
	return hmac.Equal([]byte(want), []byte(strings.ToLower(secureHash)))
}
