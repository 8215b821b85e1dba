// Package expr implements the expression sub-language: a tokenizer, a
// recursive-descent parser producing an AST, and an evaluator that
// binds a record's attribute values into the AST's variable leaves.
package expr

import (
	"strings"
	"unicode"

	"github.com/jhh-labs/relq/pkg/dberrors"
)

// TokenKind identifies the lexical category of a Token.
type TokenKind int

const (
	TokNumber TokenKind = iota
	TokString
	TokIdent
	TokAnd
	TokOr
	TokSymbol
	TokEOF
)

// Token is one lexeme produced by Tokenize.
type Token struct {
	Kind TokenKind
	Text string
}

// symbols in longest-match-first order.
var symbols = []string{"<=", ">=", "<>", "=", "<", ">", "+", "-", "*", "/", "(", ")", ","}

// Tokenize converts an expression string into a stream of tokens,
// terminated by a TokEOF token.
func Tokenize(input string) ([]Token, error) {
	var tokens []Token
	runes := []rune(input)
	i := 0
	for i < len(runes) {
		c := runes[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case unicode.IsDigit(c):
			start := i
			for i < len(runes) && unicode.IsDigit(runes[i]) {
				i++
			}
			if i < len(runes) && runes[i] == '.' && i+1 < len(runes) && unicode.IsDigit(runes[i+1]) {
				i++
				for i < len(runes) && unicode.IsDigit(runes[i]) {
					i++
				}
			}
			tokens = append(tokens, Token{Kind: TokNumber, Text: string(runes[start:i])})
		case c == '"':
			i++
			start := i
			for i < len(runes) && runes[i] != '"' {
				i++
			}
			if i >= len(runes) {
				return nil, dberrors.New(dberrors.Parsing, "unterminated string literal")
			}
			tokens = append(tokens, Token{Kind: TokString, Text: string(runes[start:i])})
			i++
		case isIdentStart(c):
			start := i
			for i < len(runes) && isIdentPart(runes[i]) {
				i++
			}
			text := string(runes[start:i])
			switch strings.ToLower(text) {
			case "and":
				tokens = append(tokens, Token{Kind: TokAnd, Text: text})
			case "or":
				tokens = append(tokens, Token{Kind: TokOr, Text: text})
			default:
				tokens = append(tokens, Token{Kind: TokIdent, Text: text})
			}
		default:
			sym, ok := matchSymbol(runes, i)
			if !ok {
				return nil, dberrors.Newf(dberrors.Parsing, "unexpected character %q", string(c))
			}
			tokens = append(tokens, Token{Kind: TokSymbol, Text: sym})
			i += len(sym)
		}
	}
	tokens = append(tokens, Token{Kind: TokEOF})
	return tokens, nil
}

func isIdentStart(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}

func isIdentPart(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
}

func matchSymbol(runes []rune, i int) (string, bool) {
	for _, sym := range symbols {
		end := i + len(sym)
		if end <= len(runes) && string(runes[i:end]) == sym {
			return sym, true
		}
	}
	return "", false
}
