// Package lexer tokenizes lolmark source text.
//
// Directives are fixed multi-word literals matched as single indivisible
// lexemes, longest spelling first, so that the YouTube media root wins
// over the generic URL root and a two-word directive wins over any
// shorter reading. Each directive is accepted in exactly two spellings:
// all-uppercase and all-lowercase. Ordinary text is drawn from a
// restricted character set; any other character is a lexical error at
// its byte offset.
package lexer

import (
	"fmt"
	"sort"
	"strings"

	"lolmark/token"
)

// Error is a lexical error at a byte offset in the source document.
type Error struct {
	Offset int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lex error at offset %d: %s", e.Offset, e.Reason)
}

type literal struct {
	spell string
	kind  token.Kind
}

var literals = []literal{
	{"#HAI", token.FileBegin},
	{"#hai", token.FileBegin},
	{"#KTHXBYE", token.FileEnd},
	{"#kthxbye", token.FileEnd},
	{"#OBTW", token.CommentBegin},
	{"#obtw", token.CommentBegin},
	{"#TLDR", token.CommentEnd},
	{"#tldr", token.CommentEnd},
	{"#MAEK HEAD", token.HeadBegin},
	{"#maek head", token.HeadBegin},
	{"#MAEK PARAGRAF", token.ParagraphBegin},
	{"#maek paragraf", token.ParagraphBegin},
	{"#MAEK LIST", token.ListBegin},
	{"#maek list", token.ListBegin},
	{"#OIC", token.BlockEnd},
	{"#oic", token.BlockEnd},
	{"#GIMMEH TITLE", token.TitleBegin},
	{"#gimmeh title", token.TitleBegin},
	{"#GIMMEH BOLD", token.BoldBegin},
	{"#gimmeh bold", token.BoldBegin},
	{"#GIMMEH ITALICS", token.ItalicBegin},
	{"#gimmeh italics", token.ItalicBegin},
	{"#GIMMEH ITEM", token.ItemBegin},
	{"#gimmeh item", token.ItemBegin},
	{"#GIMMEH NEWLINE", token.Newline},
	{"#gimmeh newline", token.Newline},
	{"#GIMMEH SOUNDZ", token.SoundBegin},
	{"#gimmeh soundz", token.SoundBegin},
	{"#GIMMEH VIDZ", token.VideoBegin},
	{"#gimmeh vidz", token.VideoBegin},
	{"#MKAY", token.MkayEnd},
	{"#mkay", token.MkayEnd},
	{"#I HAZ", token.DeclareBegin},
	{"#i haz", token.DeclareBegin},
	{"#IT IZ", token.DeclareMid},
	{"#it iz", token.DeclareMid},
	{"#LEMME SEE", token.AccessBegin},
	{"#lemme see", token.AccessBegin},
	{token.YoutubeRootLit, token.YoutubeRoot},
	{token.URLRootLit, token.URLRoot},
	{".mp3", token.Mp3Suffix},
	{".MP3", token.Mp3Suffix},
}

func init() {
	// Longest match first.
	sort.SliceStable(literals, func(i, j int) bool {
		return len(literals[i].spell) > len(literals[j].spell)
	})
}

type Lexer struct {
	src string
	pos int
}

func New(src string) *Lexer {
	return &Lexer{src: src}
}

// Lex tokenizes the whole document. The returned stream always ends with
// an EOF token. On the first unsupported character or unrecognized
// directive, Lex returns a *Error and no tokens.
func (l *Lexer) Lex() ([]token.Token, error) {
	var toks []token.Token
	for {
		l.skipSpace()
		if l.pos >= len(l.src) {
			return append(toks, token.Token{Kind: token.EOF, Pos: l.pos}), nil
		}
		if t, ok := l.literalAt(l.pos); ok {
			l.pos += len(t.Lit)
			toks = append(toks, t)
			continue
		}
		c := l.src[l.pos]
		if !isPlain(c) {
			if c == '#' {
				return nil, &Error{
					Offset: l.pos,
					Reason: fmt.Sprintf("unrecognized directive %q", l.directiveHint()),
				}
			}
			return nil, &Error{
				Offset: l.pos,
				Reason: fmt.Sprintf("unsupported character %q", c),
			}
		}
		toks = append(toks, l.plainRun())
	}
}

// literalAt reports the directive or media literal starting at pos, if
// any. The table is ordered by descending spelling length. A hash
// directive must end at a word boundary, so "#haiku" is not a
// file-begin marker followed by text.
func (l *Lexer) literalAt(pos int) (token.Token, bool) {
	rest := l.src[pos:]
	for _, lit := range literals {
		if !strings.HasPrefix(rest, lit.spell) {
			continue
		}
		if lit.spell[0] == '#' && len(rest) > len(lit.spell) && isLetter(rest[len(lit.spell)]) {
			continue
		}
		return token.Token{Kind: lit.kind, Lit: lit.spell, Pos: pos}, true
	}
	return token.Token{}, false
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// plainRun consumes a maximal run of plain characters. The run ends
// early if a literal begins mid-run, so that a trailing ".mp3" or an
// embedded URL root is lexed as its own token.
func (l *Lexer) plainRun() token.Token {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) && isPlain(l.src[l.pos]) {
		if _, ok := l.literalAt(l.pos); ok {
			break
		}
		l.pos++
	}
	return token.Token{Kind: token.Plain, Lit: l.src[start:l.pos], Pos: start}
}

// directiveHint reads the hash and up to two following words for the
// error message.
func (l *Lexer) directiveHint() string {
	end := l.pos + 1
	spaces := 0
	for end < len(l.src) {
		c := l.src[end]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			end++
			continue
		}
		if c == ' ' && spaces == 0 {
			spaces++
			end++
			continue
		}
		break
	}
	return strings.TrimRight(l.src[l.pos:end], " ")
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

// isPlain reports whether c belongs to the plain character set: ASCII
// lowercase letters, digits, the uppercase letters except S through W
// (the source grammar omits exactly those five), and a fixed punctuation
// subset.
func isPlain(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c >= 'A' && c <= 'Z':
		return c < 'S' || c > 'W'
	}
	switch c {
	case ',', '.', '"', ':', '?', '%', '/', '!':
		return true
	}
	return false
}
