package services_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"grocer/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeName(t *testing.T) {
	// Surrounding whitespace is trimmed
	name, err := services.SanitizeName("  Whole Milk  ")
	assert.NoError(t, err)
	assert.Equal(t, "Whole Milk", name)

	// Exactly 200 characters after trimming succeeds
	name, err = services.SanitizeName("  " + strings.Repeat("a", 200) + "  ")
	assert.NoError(t, err)
	assert.Len(t, name, 200)

	// 201 characters fails with a ValidationError
	_, err = services.SanitizeName(strings.Repeat("a", 201))
	assert.Error(t, err)
	var vErr *services.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name", vErr.Field)
	assert.Contains(t, vErr.Reason, "too long")

	// Empty is not rejected here; missing-name detection is the caller's job
	name, err = services.SanitizeName("   ")
	assert.NoError(t, err)
	assert.Equal(t, "", name)
}

func TestSanitizeNameCountsCharactersNotBytes(t *testing.T) {
	// 200 two-byte characters is a 400-byte string but still a legal name.
	name, err := services.SanitizeName(strings.Repeat("é", 200))
	assert.NoError(t, err)
	assert.Equal(t, 200, utf8.RuneCountInString(name))

	_, err = services.SanitizeName(strings.Repeat("é", 201))
	var vErr *services.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name", vErr.Field)

	category, err := services.SanitizeCategory(strings.Repeat("ö", 100))
	assert.NoError(t, err)
	assert.Equal(t, 100, utf8.RuneCountInString(*category))

	_, err = services.SanitizeCategory(strings.Repeat("ö", 101))
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "category", vErr.Field)

	query, err := services.SanitizeQuery(strings.Repeat("ü", 200))
	assert.NoError(t, err)
	assert.Equal(t, 200, utf8.RuneCountInString(query))

	_, err = services.SanitizeQuery(strings.Repeat("ü", 201))
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "query", vErr.Field)
}

func TestSanitizeCategory(t *testing.T) {
	category, err := services.SanitizeCategory(" Dairy ")
	assert.NoError(t, err)
	assert.NotNil(t, category)
	assert.Equal(t, "Dairy", *category)

	// Empty trimmed category normalizes to absent
	category, err = services.SanitizeCategory("   ")
	assert.NoError(t, err)
	assert.Nil(t, category)

	// Over 100 characters fails
	_, err = services.SanitizeCategory(strings.Repeat("c", 101))
	var vErr *services.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "category", vErr.Field)

	// Exactly 100 succeeds
	category, err = services.SanitizeCategory(strings.Repeat("c", 100))
	assert.NoError(t, err)
	assert.Len(t, *category, 100)
}

func TestSanitizePrice(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantErr string
	}{
		{name: "integer", raw: "5", want: 5},
		{name: "decimal", raw: "1.89", want: 1.89},
		{name: "zero is allowed", raw: "0", want: 0},
		{name: "whitespace tolerated", raw: " 2.50 ", want: 2.5},
		{name: "negative rejected", raw: "-0.01", wantErr: ">= 0"},
		{name: "non-numeric rejected", raw: "abc", wantErr: "not a number"},
		{name: "empty rejected", raw: "", wantErr: "not a number"},
		// ParseFloat accepts these, but a stored NaN or Inf price would
		// break the price >= 0 invariant and is unrepresentable in JSON.
		{name: "NaN rejected", raw: "NaN", wantErr: "not a number"},
		{name: "positive infinity rejected", raw: "+Inf", wantErr: "not a number"},
		{name: "infinity rejected", raw: "Inf", wantErr: "not a number"},
		{name: "negative infinity rejected", raw: "-Inf", wantErr: "not a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := services.SanitizePrice(tt.raw)
			if tt.wantErr != "" {
				var vErr *services.ValidationError
				assert.ErrorAs(t, err, &vErr)
				assert.Equal(t, "price", vErr.Field)
				assert.Contains(t, vErr.Reason, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, price)
		})
	}
}

func TestSanitizeQuery(t *testing.T) {
	query, err := services.SanitizeQuery("  milk  ")
	assert.NoError(t, err)
	assert.Equal(t, "milk", query)

	_, err = services.SanitizeQuery(strings.Repeat("q", 201))
	var vErr *services.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "query", vErr.Field)

	query, err = services.SanitizeQuery(strings.Repeat("q", 200))
	assert.NoError(t, err)
	assert.Len(t, query, 200)
}
