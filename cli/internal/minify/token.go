package minify

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind classifies a token produced by the Tokenizer.
type Kind int

const (
	Whitespace Kind = iota
	Comment
	String
	OpenBrace
	CloseBrace
	Colon
	Semicolon
	ParenOpen
	ParenClose
	Operator
	Word
)

var kindNames = [...]string{
	Whitespace: "Whitespace",
	Comment:    "Comment",
	String:     "String",
	OpenBrace:  "OpenBrace",
	CloseBrace: "CloseBrace",
	Colon:      "Colon",
	Semicolon:  "Semicolon",
	ParenOpen:  "ParenOpen",
	ParenClose: "ParenClose",
	Operator:   "Operator",
	Word:       "Word",
}

// String returns the kind name (e.g. "ParenClose"), or "Kind(n)" when out of range.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Token is one lexical unit of CSS source. Text is the exact source substring,
// except for Whitespace tokens whose Text is always a single space.
type Token struct {
	Kind Kind
	Text string
}

// Is reports whether t has kind k.
func (t Token) Is(k Kind) bool { return t.Kind == k }

// structural maps single-character structural tokens to their kinds.
var structural = map[byte]Kind{
	'{': OpenBrace,
	'}': CloseBrace,
	':': Colon,
	';': Semicolon,
	'(': ParenOpen,
	')': ParenClose,
}

// Tokenizer scans CSS source into tokens on demand. It is forward-only:
// once a token is returned it cannot be re-read; scan the source again with
// a new Tokenizer instead.
type Tokenizer struct {
	src string
	pos int
}

// NewTokenizer returns a Tokenizer positioned at the start of src.
func NewTokenizer(src string) *Tokenizer {
	return &Tokenizer{src: src}
}

// Tokenize scans all of src and returns its tokens in source order.
func Tokenize(src string) []Token {
	var out []Token
	tz := NewTokenizer(src)
	for {
		tok, ok := tz.Next()
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}

// Next returns the next token and true, or a zero Token and false at end of input.
// Every call that returns true advances by at least one byte.
func (tz *Tokenizer) Next() (Token, bool) {
	if tz.pos >= len(tz.src) {
		return Token{}, false
	}
	c := tz.src[tz.pos]
	switch {
	case tz.spaceAt(tz.pos) > 0:
		return tz.scanWhitespace(), true
	case c == '"' || c == '\'':
		return tz.scanString(c), true
	case tz.commentAt(tz.pos):
		return tz.scanComment(), true
	}
	if k, ok := structural[c]; ok {
		tz.pos++
		return Token{Kind: k, Text: tz.src[tz.pos-1 : tz.pos]}, true
	}
	if isOperator(c) {
		tz.pos++
		return Token{Kind: Operator, Text: tz.src[tz.pos-1 : tz.pos]}, true
	}
	return tz.scanWord(), true
}

func (tz *Tokenizer) scanWhitespace() Token {
	for tz.pos < len(tz.src) {
		n := tz.spaceAt(tz.pos)
		if n == 0 {
			break
		}
		tz.pos += n
	}
	return Token{Kind: Whitespace, Text: " "}
}

// scanString consumes a quoted string. A backslash always skips the next byte,
// so escaped quotes and escaped newlines stay inside the string. An unescaped
// newline ends the string without being consumed.
func (tz *Tokenizer) scanString(quote byte) Token {
	start := tz.pos
	tz.pos++
	for tz.pos < len(tz.src) {
		c := tz.src[tz.pos]
		if c == '\\' {
			tz.pos += 2
			continue
		}
		if c == quote {
			tz.pos++
			break
		}
		if c == '\n' {
			break
		}
		tz.pos++
	}
	if tz.pos > len(tz.src) {
		tz.pos = len(tz.src)
	}
	return Token{Kind: String, Text: tz.src[start:tz.pos]}
}

// scanComment consumes /* ... */. An unterminated comment runs to end of input.
func (tz *Tokenizer) scanComment() Token {
	start := tz.pos
	end := strings.Index(tz.src[start+2:], "*/")
	if end < 0 {
		tz.pos = len(tz.src)
	} else {
		tz.pos = start + 2 + end + 2
	}
	return Token{Kind: Comment, Text: tz.src[start:tz.pos]}
}

func (tz *Tokenizer) scanWord() Token {
	start := tz.pos
	for tz.pos < len(tz.src) {
		c := tz.src[tz.pos]
		if tz.spaceAt(tz.pos) > 0 || isWordStop(c) || tz.commentAt(tz.pos) {
			break
		}
		tz.pos++
	}
	return Token{Kind: Word, Text: tz.src[start:tz.pos]}
}

// spaceAt returns the byte width of the white space rune at i, or 0 if there is none.
func (tz *Tokenizer) spaceAt(i int) int {
	c := tz.src[i]
	if c < utf8.RuneSelf {
		if unicode.IsSpace(rune(c)) {
			return 1
		}
		return 0
	}
	r, n := utf8.DecodeRuneInString(tz.src[i:])
	if r != utf8.RuneError && unicode.IsSpace(r) {
		return n
	}
	return 0
}

func (tz *Tokenizer) commentAt(i int) bool {
	return tz.src[i] == '/' && i+1 < len(tz.src) && tz.src[i+1] == '*'
}

func isOperator(c byte) bool {
	return c == ',' || c == '>' || c == '+' || c == '~'
}

func isWordStop(c byte) bool {
	switch c {
	case '"', '\'', '{', '}', '(', ')', ':', ';', ',', '>', '+', '~':
		return true
	}
	return false
}
