package http_test

import (
	"testing"

	pcohttp "github.com/fivetwenty-io/pco-client/internal/http"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	const base = "https://api.planningcenteronline.com"

	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "relative path gets the base",
			raw:      "/people/v2/people",
			expected: "https://api.planningcenteronline.com/people/v2/people",
		},
		{
			name:     "absolute URL is untouched",
			raw:      "https://api.planningcenteronline.com/people/v2/people/42",
			expected: "https://api.planningcenteronline.com/people/v2/people/42",
		},
		{
			name:     "other host is untouched",
			raw:      "https://upload.planningcenteronline.com/v2/files",
			expected: "https://upload.planningcenteronline.com/v2/files",
		},
		{
			name:     "doubled slashes collapse",
			raw:      "/people/v2//people//42",
			expected: "https://api.planningcenteronline.com/people/v2/people/42",
		},
		{
			name:     "scheme separator survives collapsing",
			raw:      "https://api.planningcenteronline.com//people/v2",
			expected: "https://api.planningcenteronline.com/people/v2",
		},
		{
			name:     "longer slash runs collapse too",
			raw:      "/people/v2////people",
			expected: "https://api.planningcenteronline.com/people/v2/people",
		},
		{
			name:     "plain http scheme is preserved",
			raw:      "http://localhost:8080//people/v2",
			expected: "http://localhost:8080/people/v2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, pcohttp.NormalizeURL(base, tt.raw))
		})
	}
}
