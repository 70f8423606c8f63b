package log

import (
	"fmt"
	"strings"
)

type token struct {
	key, value string
	inside     rune // shows whether the value was in brackets
}

// tokenize splits `key=value,key=[a,b]` configuration lines.
func tokenize(line string) ([]token, error) {
	var tokens []token
	for line != "" {
		key, rest, found := strings.Cut(line, "=")
		if !found || strings.ContainsRune(key, ',') {
			return nil, fmt.Errorf("key `%s` with no value", key)
		}
		if rest == "" {
			return nil, fmt.Errorf("key `%s=` with no value", key)
		}

		// `key=,` is an empty value, left for the caller to reject
		tok := token{key: key}
		if rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, fmt.Errorf("value of key `%s` has no closing `]`", key)
			}
			tok.value, tok.inside = rest[1:end], '['
			rest = strings.TrimPrefix(rest[end+1:], ",")
		} else {
			tok.value, rest, _ = strings.Cut(rest, ",")
		}
		tokens = append(tokens, tok)
		line = rest
	}
	return tokens, nil
}
