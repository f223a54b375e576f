package search

import (
	"regexp"
	"strings"
)

// Boolean operators of the structured query syntax
const (
	OperatorAnd = "AND"
	OperatorOr  = "OR"
	OperatorNot = "NOT"
)

var (
	whitespace   = regexp.MustCompile(`\s+`)
	specialChars = regexp.MustCompile(`([\\+\-&|!(){}\[\]^~*?:/])`)
)

// operator returns the canonical form of an operator token
func operator(token string) (string, bool) {
	switch strings.ToUpper(token) {
	case OperatorAnd, "&&":
		return OperatorAnd, true
	case OperatorOr, "||":
		return OperatorOr, true
	case OperatorNot:
		return OperatorNot, true
	}
	return "", false
}

func isLogical(token string) bool {
	return token == OperatorAnd || token == OperatorOr
}

func isOperator(token string) bool {
	return isLogical(token) || token == OperatorNot
}

// Sanitize splits a free text query into tokens the structured query parser
// accepts. Terms are lowercased and escaped, operators are capitalized, and
// operators which would leave the query dangling are dropped: leading ones,
// trailing ones, a logical operator following another and a doubled NOT.
func Sanitize(q string) []string {
	text := whitespace.ReplaceAllString(strings.TrimSpace(q), " ")
	if text == "" {
		return nil
	}
	var tokens []string
	for _, item := range strings.Split(text, " ") {
		op, ok := operator(item)
		if !ok {
			tokens = append(tokens, EscapeSpecialCharacters(strings.ToLower(item)))
			continue
		}
		var previous string
		if len(tokens) > 0 {
			previous = tokens[len(tokens)-1]
		}
		if isLogical(op) && (previous == "" || isOperator(previous)) {
			continue
		}
		if op == OperatorNot && previous == OperatorNot {
			continue
		}
		tokens = append(tokens, op)
	}
	for len(tokens) > 0 && isOperator(tokens[len(tokens)-1]) {
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

// EscapeSpecialCharacters escapes the reserved characters of the structured
// query syntax
func EscapeSpecialCharacters(s string) string {
	return specialChars.ReplaceAllString(s, `\$1`)
}

// PrepareQuery joins sanitized tokens into a query string, every term
// becoming a prefix query
func PrepareQuery(tokens []string) string {
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if isOperator(t) {
			parts = append(parts, t)
		} else {
			parts = append(parts, t+"*")
		}
	}
	return strings.Join(parts, " ")
}

// unescape removes the escaping added by Sanitize
func unescape(tokens []string) []string {
	result := make([]string, 0, len(tokens))
	for _, t := range tokens {
		result = append(result, strings.ToLower(strings.ReplaceAll(t, `\`, "")))
	}
	return result
}
