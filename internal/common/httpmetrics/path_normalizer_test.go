package httpmetrics_test

import (
	"testing"

	"github.com/AlibekovAA/user-registry/internal/common/httpmetrics"
)

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		path string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"/users", "/users"},
		{"/users/42", "/users/{id}"},
		{"/users/abc", "/users/abc"},
		{"/users/list/by-birth-date-range", "/users/list/by-birth-date-range"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			if got := httpmetrics.NormalizePath(tc.path); got != tc.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tc.path, got, tc.want)
			}
		})
	}
}
