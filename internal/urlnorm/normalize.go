// Package urlnorm implements C2, the URL normalizer: a pure function
// that canonicalizes a URL for equality comparison only. Original URLs
// are always preserved in user-visible output; normalization exists
// purely to let the correspondence resolver (C3) compare old and new
// URLs as sets.
package urlnorm

import (
	"net/url"
	"strings"
)

// Normalize canonicalizes url per spec §4.2:
//  1. parse; on failure return the input unchanged
//  2. lowercase host
//  3. strip a leading "www."
//  4. remove a trailing "/" from the path, unless the path is exactly "/"
//  5. drop query string and fragment
//  6. keep scheme as-is
func Normalize(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")

	path := u.Path
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}

	normalized := u.Scheme + "://" + host + path
	return normalized
}
