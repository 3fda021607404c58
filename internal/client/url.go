package client

import (
	"fmt"
	"net/url"
	"strings"
)

const upperhex = "0123456789ABCDEF"

// keptInURL lists the reserved characters PostgREST filters rely on; they are
// left as-is by encodeURL
const keptInURL = "!$&'()*,;=:/?@[]"

// BuildURL joins base, resource and the compiled filter and percent-encodes
// the result.
//
// Letters, digits, "-._~" and the reserved characters "!$&'()*,;=:/?@[]"
// pass through untouched. Everything else, including space, '"', '#', '%',
// '+' and non-ASCII bytes, is written as %XX.
func BuildURL(base, resource, filter string) string {
	raw := strings.TrimRight(base, "/") + "/" + strings.Trim(resource, "/")
	if filter != "" {
		raw += "?" + filter
	}
	return encodeURL(raw)
}

func encodeURL(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if shouldKeep(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func shouldKeep(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	}
	return strings.IndexByte(keptInURL, c) >= 0
}

// ValidateBaseURL checks that base is an absolute http(s) URL without query
// or fragment.
func ValidateBaseURL(base string) error {
	base = strings.TrimSpace(base)
	if base == "" {
		return fmt.Errorf("invalid base URL %q: cannot be empty", base)
	}

	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL %q: scheme must be http or https", base)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base URL %q: missing host", base)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("invalid base URL %q: must not include query or fragment", base)
	}
	return nil
}
