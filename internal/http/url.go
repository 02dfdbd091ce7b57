package http

import "strings"

// NormalizeURL prepares a caller-supplied URL for dispatch: relative
// paths are prefixed with the API base (an absolute URL, including one
// already carrying the base, is left alone), and any run of consecutive
// slashes collapses to one. The scheme's "://" separator never
// collapses.
func NormalizeURL(base, raw string) string {
	full := raw

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		full = base + raw
	}

	return collapseSlashes(full)
}

// collapseSlashes reduces runs of '/' to a single one, except directly
// after ':' so the protocol separator survives.
func collapseSlashes(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		b.WriteByte(s[i])

		if s[i] != '/' {
			continue
		}

		if i > 0 && s[i-1] == ':' && i+1 < len(s) && s[i+1] == '/' {
			b.WriteByte('/')
			i++
		}

		for i+1 < len(s) && s[i+1] == '/' {
			i++
		}
	}

	return b.String()
}
