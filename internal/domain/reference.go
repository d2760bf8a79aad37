package domain

import (
	"iter"
	"strings"
)

// TokenKind tells literal text apart from an inline event reference.
type TokenKind int

const (
	TokenLiteral TokenKind = iota
	TokenReference
)

// Token is one piece of reply text. For a reference, Label is the
// display text and ID the event id; Text always holds the raw source.
type Token struct {
	Kind  TokenKind `json:"-"`
	Text  string    `json:"text"`
	Label string    `json:"label,omitempty"`
	ID    string    `json:"eventId,omitempty"`
}

// IsReference reports whether the token points at an event.
func (t Token) IsReference() bool { return t.Kind == TokenReference }

const refTarget = "](event:"

// Tokens returns the token stream of text: literal runs and
// "[label](event:id)" references, in order. Anything that does not
// form a complete reference stays literal, so the concatenation of all
// Text fields is always the input. The sequence can be ranged over
// any number of times.
func Tokens(text string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		scan(text, yield)
	}
}

// Tokenize collects Tokens(text) into a slice.
func Tokenize(text string) []Token {
	var out []Token
	for tok := range Tokens(text) {
		out = append(out, tok)
	}
	return out
}

// ExtractIDs returns the ids of all references in text, deduplicated,
// in order of first appearance.
func ExtractIDs(text string) []string {
	ids := []string{}
	seen := make(map[string]struct{})
	for tok := range Tokens(text) {
		if !tok.IsReference() {
			continue
		}
		if _, dup := seen[tok.ID]; dup {
			continue
		}
		seen[tok.ID] = struct{}{}
		ids = append(ids, tok.ID)
	}
	return ids
}

// Render rebuilds text with every reference replaced by fn(label, id).
// Literal runs are copied unchanged.
func Render(text string, fn func(label, id string) string) string {
	var b strings.Builder
	b.Grow(len(text))
	for tok := range Tokens(text) {
		if tok.IsReference() {
			b.WriteString(fn(tok.Label, tok.ID))
			continue
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}

// Reference formats an inline reference to an event.
func Reference(label, id string) string {
	return "[" + label + refTarget + id + ")"
}

func scan(s string, yield func(Token) bool) {
	litStart, i := 0, 0
	for i < len(s) {
		open := strings.IndexByte(s[i:], '[')
		if open < 0 {
			break
		}
		open += i

		label, id, end, ok := matchReference(s, open)
		if !ok {
			i = open + 1
			continue
		}

		if open > litStart {
			if !yield(Token{Kind: TokenLiteral, Text: s[litStart:open]}) {
				return
			}
		}
		if !yield(Token{Kind: TokenReference, Text: s[open:end], Label: label, ID: id}) {
			return
		}
		litStart, i = end, end
	}
	if litStart < len(s) {
		yield(Token{Kind: TokenLiteral, Text: s[litStart:]})
	}
}

// matchReference tries to read a reference starting at s[open] == '['.
// end is the index just past the closing parenthesis.
func matchReference(s string, open int) (label, id string, end int, ok bool) {
	rest := s[open+1:]

	closeLabel := strings.IndexAny(rest, "[]")
	if closeLabel <= 0 || rest[closeLabel] != ']' {
		// Empty label, no closing bracket, or a nested '[' that gets its own chance.
		return "", "", 0, false
	}
	label = rest[:closeLabel]

	rest = rest[closeLabel:]
	if !strings.HasPrefix(rest, refTarget) {
		return "", "", 0, false
	}
	rest = rest[len(refTarget):]

	closeID := strings.IndexByte(rest, ')')
	if closeID <= 0 {
		return "", "", 0, false
	}
	id = rest[:closeID]
	if strings.ContainsAny(id, " \t\r\n([]") {
		return "", "", 0, false
	}

	end = open + 1 + closeLabel + len(refTarget) + closeID + 1
	return label, id, end, true
}
