package signature

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// SignatureField is the field name the processor uses to carry the
// digest itself. It never participates in signing.
const SignatureField = "signature"

// Sign canonicalizes a field map and returns the hex digest the
// processor expects. The same function signs outgoing payment requests
// and recomputes the expected signature of inbound notifications:
//
//  1. fields with empty values are dropped
//  2. remaining keys are sorted lexicographically
//  3. joined as key=urlencode(value)&, spaces encoded as '+'
//  4. &passphrase=urlencode(secret) appended when the secret is set
//  5. MD5 over the resulting byte string
func Sign(fields map[string]string, passphrase string) string {
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if k == SignatureField || v == "" {
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
		b.WriteString(url.QueryEscape(fields[k]))
	}
	if passphrase != "" {
		b.WriteString("&passphrase=")
		b.WriteString(url.QueryEscape(passphrase))
	}

	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Verify recomputes the signature over fields and compares it with the
// provided one. Any mismatch is an authentication failure, never a
// soft warning.
func Verify(fields map[string]string, passphrase, provided string) bool {
	if provided == "" {
		return false
	}
	expected := Sign(fields, passphrase)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(provided))) == 1
}
