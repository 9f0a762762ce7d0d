package repositories

import "strings"

// EscapeLikePattern escapes LIKE pattern metacharacters so the input matches
// as literal text. Backslash is escaped first so the backslashes introduced
// for % and _ are not themselves re-escaped. The result is meant to be used
// in a LIKE clause with `\` declared as the escape character.
func EscapeLikePattern(query string) string {
	escaped := strings.ReplaceAll(query, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `%`, `\%`)
	escaped = strings.ReplaceAll(escaped, `_`, `\_`)
	return escaped
}
