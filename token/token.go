// Package token defines the lexical tokens of the lolmark markup language.
package token

import "fmt"

// Kind identifies the lexical class of a token. The set is closed: every
// directive of the language has its own kind, plus Plain for ordinary text
// and EOF for end of input.
type Kind uint8

const (
	EOF Kind = iota
	Plain

	FileBegin // #HAI
	FileEnd   // #KTHXBYE

	CommentBegin // #OBTW
	CommentEnd   // #TLDR

	HeadBegin      // #MAEK HEAD
	ParagraphBegin // #MAEK PARAGRAF
	ListBegin      // #MAEK LIST
	BlockEnd       // #OIC

	TitleBegin  // #GIMMEH TITLE
	BoldBegin   // #GIMMEH BOLD
	ItalicBegin // #GIMMEH ITALICS
	ItemBegin   // #GIMMEH ITEM
	Newline     // #GIMMEH NEWLINE
	SoundBegin  // #GIMMEH SOUNDZ
	VideoBegin  // #GIMMEH VIDZ
	MkayEnd     // #MKAY

	DeclareBegin // #I HAZ
	DeclareMid   // #IT IZ
	AccessBegin  // #LEMME SEE

	URLRoot     // http://www.
	YoutubeRoot // http://www.youtube.com
	Mp3Suffix   // .mp3
)

// Media literal spellings shared by the lexer and the HTML generator.
const (
	URLRootLit     = "http://www."
	YoutubeRootLit = "http://www.youtube.com"
)

var names = [...]string{
	EOF:            "EOF",
	Plain:          "Plain",
	FileBegin:      "FileBegin",
	FileEnd:        "FileEnd",
	CommentBegin:   "CommentBegin",
	CommentEnd:     "CommentEnd",
	HeadBegin:      "HeadBegin",
	ParagraphBegin: "ParagraphBegin",
	ListBegin:      "ListBegin",
	BlockEnd:       "BlockEnd",
	TitleBegin:     "TitleBegin",
	BoldBegin:      "BoldBegin",
	ItalicBegin:    "ItalicBegin",
	ItemBegin:      "ItemBegin",
	Newline:        "Newline",
	SoundBegin:     "SoundBegin",
	VideoBegin:     "VideoBegin",
	MkayEnd:        "MkayEnd",
	DeclareBegin:   "DeclareBegin",
	DeclareMid:     "DeclareMid",
	AccessBegin:    "AccessBegin",
	URLRoot:        "URLRoot",
	YoutubeRoot:    "YoutubeRoot",
	Mp3Suffix:      "Mp3Suffix",
}

func (k Kind) String() string {
	if int(k) < len(names) {
		return names[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Token is a single lexeme. Pos is the byte offset of the token's first
// character in the source document.
type Token struct {
	Kind Kind
	Lit  string
	Pos  int
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s(%q)", t.Kind, t.Lit)
}
