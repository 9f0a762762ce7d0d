package services

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"grocer/internal/models"
)

// The sanitizers below are pure functions shared by every ingestion path:
// the single-insert API, the CSV bulk import, and the startup seeder all run
// the same three before anything reaches the store.

// SanitizeName trims surrounding whitespace and enforces the length limit.
// An empty result is not rejected here; missing-name detection belongs to the
// caller, which knows whether the row is allowed to omit it.
func SanitizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	// Limits count characters, not bytes, so multi-byte product names are
	// not cut short.
	if utf8.RuneCountInString(name) > models.MaxNameLength {
		return "", newValidationError("name", "too long (max %d characters)", models.MaxNameLength)
	}
	return name, nil
}

// SanitizeCategory trims and enforces the length limit. An empty trimmed
// category normalizes to nil, so the store persists NULL rather than "".
func SanitizeCategory(raw string) (*string, error) {
	category := strings.TrimSpace(raw)
	if utf8.RuneCountInString(category) > models.MaxCategoryLength {
		return nil, newValidationError("category", "too long (max %d characters)", models.MaxCategoryLength)
	}
	if category == "" {
		return nil, nil
	}
	return &category, nil
}

// SanitizePrice parses raw as a floating-point number and rejects negatives.
// NaN and the infinities are rejected too: ParseFloat accepts them, but they
// would break the price >= 0 invariant and cannot be rendered as JSON.
func SanitizePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, newValidationError("price", "not a number: %q", raw)
	}
	if price < 0 {
		return 0, newValidationError("price", "must be >= 0")
	}
	return price, nil
}

// SanitizeQuery trims a search query and enforces the length limit.
func SanitizeQuery(raw string) (string, error) {
	query := strings.TrimSpace(raw)
	if utf8.RuneCountInString(query) > models.MaxQueryLength {
		return "", newValidationError("query", "too long (max %d characters)", models.MaxQueryLength)
	}
	return query, nil
}
