package search

import "strings"

// ftsSpecials are characters FTS5 assigns syntactic meaning; they're
// stripped from user tokens so a query can never break out of the MATCH
// expression it's embedded in.
const ftsSpecials = `"*^:().-+` + "'"

// minTokenLength is the shortest token considered meaningful; shorter
// tokens (mostly noise from stripped punctuation) are dropped.
const minTokenLength = 2

// emptyMatchExpression is returned when no usable token survives
// normalization. FTS5 never matches it, so callers that run it through
// MATCH get an empty result set rather than a syntax error.
const emptyMatchExpression = `""`

// BuildMatchExpression tokenizes a free-form query into a safe FTS5 MATCH
// expression: split on whitespace, strip special characters, drop tokens
// under minTokenLength, and AND-join what remains (FTS5's implicit default).
func BuildMatchExpression(query string) string {
	fields := strings.Fields(query)
	tokens := make([]string, 0, len(fields))

	for _, f := range fields {
		t := stripSpecials(f)
		if len(t) < minTokenLength {
			continue
		}
		tokens = append(tokens, t)
	}

	if len(tokens) == 0 {
		return emptyMatchExpression
	}
	return strings.Join(tokens, " ")
}

// IsEmptyMatchExpression reports whether expr is the sentinel produced when
// a query has no usable tokens.
func IsEmptyMatchExpression(expr string) bool {
	return expr == emptyMatchExpression
}

func stripSpecials(token string) string {
	var b strings.Builder
	for _, r := range token {
		if strings.ContainsRune(ftsSpecials, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
