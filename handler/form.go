package handler

import (
	"net/url"
	"strings"
)

// parseForm reads a form-encoded webhook body without rejecting anything.
// Pairs are split on '&' only, so ';' stays part of the value, and a '%' that
// does not start a valid escape is kept as written. Pairs with a blank value
// are dropped.
func parseForm(body string) url.Values {
	params := make(url.Values)
	for _, pair := range strings.Split(body, "&") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || value == "" {
			continue
		}
		name = unescape(name)
		params[name] = append(params[name], unescape(value))
	}
	return params
}

// formValue returns the first non-blank value for key. Blank values count as
// absent, so "From=" still yields the default.
func formValue(params url.Values, key, def string) string {
	for _, v := range params[key] {
		if v != "" {
			return v
		}
	}
	return def
}

// unescape decodes '+' and %XX escapes, leaving malformed escapes untouched.
// Escapes that decode to invalid UTF-8 become U+FFFD.
func unescape(s string) string {
	s = strings.ReplaceAll(s, "+", " ")
	if !strings.Contains(s, "%") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return strings.ToValidUTF8(b.String(), "�")
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
