package server

import (
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/zeebo/blake3"
)

// etagFor returns a strong entity tag for body: the first 128 bits of its
// BLAKE3 digest, hex encoded and quoted.
func etagFor(body []byte) string {
	hasher := blake3.New()
	_, _ = hasher.Write(body)
	sum := hasher.Sum(nil)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// etagMatches reports whether the request's If-None-Match header lists etag.
// Weak comparison is used, as RFC 9110 requires for If-None-Match.
func etagMatches(r *http.Request, etag string) bool {
	header := r.Header.Get("If-None-Match")
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
