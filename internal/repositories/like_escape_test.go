package repositories_test

import (
	"testing"

	"grocer/internal/repositories"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLikePattern(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "no metacharacters", query: "milk", want: "milk"},
		{name: "percent", query: "50%", want: `50\%`},
		{name: "underscore", query: "a_b", want: `a\_b`},
		{name: "backslash", query: `a\b`, want: `a\\b`},
		// Backslash must be escaped before % and _, otherwise the
		// backslashes introduced for them would be doubled again.
		{name: "backslash before percent", query: `\%`, want: `\\\%`},
		{name: "all three", query: `\%_`, want: `\\\%\_`},
		{name: "empty", query: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repositories.EscapeLikePattern(tt.query))
		})
	}
}
