package proc

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrUnterminatedQuote is returned by Tokenize for a quote group that is
// never closed.
var ErrUnterminatedQuote = errors.New("unterminated quote")

// Tokenize splits a command line into an argument vector. Tokens are runs of
// characters other than whitespace and quotes; a "..." or '...' group is one
// token with the quotes removed. Nothing else is special: '#' and '\' are
// kept as written.
func Tokenize(command string) ([]string, error) {
	var args []string
	rest := command
	for {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		if rest == "" {
			return args, nil
		}

		switch q := rest[0]; q {
		case '"', '\'':
			end := strings.IndexByte(rest[1:], q)
			if end < 0 {
				return nil, fmt.Errorf("failed to tokenize command %q: %w", command, ErrUnterminatedQuote)
			}
			args = append(args, rest[1:1+end])
			rest = rest[2+end:]
		default:
			end := strings.IndexFunc(rest, func(r rune) bool {
				return unicode.IsSpace(r) || r == '"' || r == '\''
			})
			if end < 0 {
				end = len(rest)
			}
			args = append(args, rest[:end])
			rest = rest[end:]
		}
	}
}
