package lexer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lolmark/token"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

// Every directive is accepted in its all-uppercase and all-lowercase
// spellings; the literal table itself is the source of truth for the
// accepted forms.
func TestDirectiveSpellings(t *testing.T) {
	for _, lit := range literals {
		toks, err := New(lit.spell).Lex()
		require.NoError(t, err, "spelling %q", lit.spell)
		require.Len(t, toks, 2, "spelling %q", lit.spell)
		assert.Equal(t, lit.kind, toks[0].Kind, "spelling %q", lit.spell)
		assert.Equal(t, token.EOF, toks[1].Kind)
	}
}

// Mixed-case directives are not licensed spellings; the stray hash is a
// lex error.
func TestMixedCaseDirective(t *testing.T) {
	for _, src := range []string{"#Hai", "#MAEK head", "#gimmeh BOLD", "#Lemme See"} {
		_, err := New(src).Lex()
		var lerr *Error
		require.True(t, errors.As(err, &lerr), "src %q", src)
		assert.Equal(t, 0, lerr.Offset)
		assert.Contains(t, lerr.Reason, "unrecognized directive")
	}
}

// The plain character set omits the uppercase letters S through W while
// keeping their lowercase forms. The gap looks unintentional in the
// source grammar, but it is implemented exactly as specified; this test
// documents the behavior.
func TestUppercaseGap(t *testing.T) {
	for _, c := range []string{"S", "T", "U", "V", "W"} {
		_, err := New(c).Lex()
		var lerr *Error
		require.True(t, errors.As(err, &lerr), "char %q", c)
		assert.Equal(t, 0, lerr.Offset)
		assert.Contains(t, lerr.Reason, "unsupported character")
	}

	toks, err := New("stuvw ABR XYZ").Lex()
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.Plain, token.Plain, token.Plain, token.EOF}, kinds(toks))
}

func TestOffsets(t *testing.T) {
	toks, err := New("#hai hello world #kthxbye").Lex()
	require.NoError(t, err)
	want := []token.Token{
		{Kind: token.FileBegin, Lit: "#hai", Pos: 0},
		{Kind: token.Plain, Lit: "hello", Pos: 5},
		{Kind: token.Plain, Lit: "world", Pos: 11},
		{Kind: token.FileEnd, Lit: "#kthxbye", Pos: 17},
		{Kind: token.EOF, Pos: 25},
	}
	assert.Equal(t, want, toks)
}

// The YouTube root must win over the generic URL root, and a trailing
// ".mp3" ends the plain run it would otherwise be part of.
func TestMediaLiterals(t *testing.T) {
	toks, err := New("#gimmeh soundz http://www.boom.mp3 #mkay").Lex()
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{
		token.SoundBegin, token.URLRoot, token.Plain, token.Mp3Suffix, token.MkayEnd, token.EOF,
	}, kinds(toks))
	assert.Equal(t, "boom", toks[2].Lit)

	toks, err = New("http://www.youtube.com/watch?v:abc").Lex()
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.YoutubeRoot, token.Plain, token.EOF}, kinds(toks))
	assert.Equal(t, "/watch?v:abc", toks[1].Lit)
}

func TestUnsupportedCharacter(t *testing.T) {
	_, err := New("#hai ; #kthxbye").Lex()
	var lerr *Error
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, 5, lerr.Offset)
	assert.Contains(t, lerr.Reason, "unsupported character")
}

// A hash directive ends at a word boundary: "#haiku" is not "#hai"
// followed by "ku", it is an unrecognized directive.
func TestDirectiveWordBoundary(t *testing.T) {
	for _, src := range []string{"#haiku", "#mkayz", "#KTHXBYEE"} {
		_, err := New(src).Lex()
		var lerr *Error
		require.True(t, errors.As(err, &lerr), "src %q", src)
		assert.Equal(t, 0, lerr.Offset)
		assert.Contains(t, lerr.Reason, "unrecognized directive")
	}

	toks, err := New("#hai#kthxbye").Lex()
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.FileBegin, token.FileEnd, token.EOF}, kinds(toks))
}

func TestPlainRunStopsAtDirective(t *testing.T) {
	toks, err := New("hello#mkay").Lex()
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.Plain, token.MkayEnd, token.EOF}, kinds(toks))
	assert.Equal(t, "hello", toks[0].Lit)
}

func TestPunctuation(t *testing.T) {
	toks, err := New(`,."":?%/!`).Lex()
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, token.Plain, toks[0].Kind)
}
