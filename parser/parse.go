// MIT License

// Copyright (c) 2018 Akhil Indurti

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package parser implements a recursive-descent parser for lolmark
// source. It takes in an io.Reader as input and outputs an *ast.File
// whose Vars map is the document's variable table.
//
// The parser adheres to the following grammar, one production per AST
// variant:
//
//	file      = FileBegin [ content ] FileEnd .
//	content   = [ comment | head ]
//	            { paragraph | list | bold | italic | Newline | comment |
//	              sound | video | decl | text | ref } .
//	head      = HeadBegin [ decl ] { ref } title { ref } BlockEnd { comment } .
//	title     = TitleBegin text MkayEnd .
//	paragraph = ParagraphBegin [ decl ]
//	            { bold | italic | list | item | text | Newline | comment |
//	              sound | video | ref } BlockEnd .
//	bold      = BoldBegin [ decl ] [ text ] MkayEnd .
//	italic    = ItalicBegin [ decl ] [ text ] MkayEnd .
//	list      = ListBegin { item | ref | comment | Newline } BlockEnd .
//	item      = ItemBegin [ decl ] { text | bold | italic | ref } MkayEnd .
//	sound     = SoundBegin URLRoot { Plain } Mp3Suffix MkayEnd .
//	video     = VideoBegin YoutubeRoot { Plain } MkayEnd .
//	decl      = DeclareBegin text DeclareMid text MkayEnd .
//	ref       = AccessBegin text MkayEnd .
//	comment   = CommentBegin { Plain } CommentEnd .
//	text      = Plain { Plain } .
//
// Consecutive Plain tokens merge into a single text joined by single
// spaces. Declarations take effect immediately: a reference to a name
// with no earlier declaration anywhere in the token stream is an
// UndefinedVariableError, and redeclaring a name overwrites its value.
// The first token that fits no expected alternative is fatal; there is
// no error recovery.
package parser

import (
	"fmt"
	"io"
	"io/ioutil"
	"strings"

	"lolmark/ast"
	"lolmark/lexer"
	"lolmark/token"
)

// UnexpectedTokenError reports a token that fits no expected alternative
// at its position.
type UnexpectedTokenError struct {
	Expected string
	Found    token.Token
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("parse error at offset %d: expected %s, found %s",
		e.Found.Pos, e.Expected, e.Found)
}

// UnterminatedFileError reports a document missing its file-end marker.
type UnterminatedFileError struct {
	Offset int
}

func (e *UnterminatedFileError) Error() string {
	return fmt.Sprintf(`parse error at offset %d: file is not terminated, missing "#KTHXBYE"`, e.Offset)
}

// UnterminatedBlockError reports a block whose closing marker is missing
// before end of input. Offset is the position of the block's opening
// directive.
type UnterminatedBlockError struct {
	Block  string
	Offset int
}

func (e *UnterminatedBlockError) Error() string {
	return fmt.Sprintf("parse error: %s block at offset %d is not terminated", e.Block, e.Offset)
}

// UndefinedVariableError reports a reference to a name with no earlier
// declaration.
type UndefinedVariableError struct {
	Name   string
	Offset int
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("parse error at offset %d: variable %q is used but never declared", e.Offset, e.Name)
}

// MustParse is like Parse but panics if the source cannot be parsed.
func MustParse(src io.Reader) *ast.File {
	f, err := Parse(src)
	if err != nil {
		panic("Parse error: " + err.Error())
	}
	return f
}

// Parse tokenizes and parses the source and, if successful, returns its
// syntax tree with the populated variable table. Parsing is all or
// nothing: the first lexical or syntactic error aborts with no partial
// result.
func Parse(src io.Reader) (*ast.File, error) {
	b, err := ioutil.ReadAll(src)
	if err != nil {
		return nil, err
	}
	toks, err := lexer.New(string(b)).Lex()
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks)
}

// ParseTokens parses an already-lexed token stream. The stream must end
// with an EOF token, as produced by the lexer.
func ParseTokens(toks []token.Token) (*ast.File, error) {
	p := &parser{toks: toks, vars: make(map[string]string)}
	return p.file()
}

type parser struct {
	toks []token.Token
	pos  int
	vars map[string]string
}

func (p *parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *parser) next() {
	if p.pos < len(p.toks) && p.toks[p.pos].Kind != token.EOF {
		p.pos++
	}
}

// expectEnd consumes the closing marker of a block. End of input instead
// of the marker is an UnterminatedBlockError anchored at the block's
// opening directive.
func (p *parser) expectEnd(k token.Kind, spelling, block string, begin int) error {
	switch p.cur().Kind {
	case k:
		p.next()
		return nil
	case token.EOF:
		return &UnterminatedBlockError{Block: block, Offset: begin}
	default:
		return &UnexpectedTokenError{Expected: spelling, Found: p.cur()}
	}
}

// file = FileBegin [ content ] FileEnd .
func (p *parser) file() (*ast.File, error) {
	if p.cur().Kind != token.FileBegin {
		return nil, &UnexpectedTokenError{Expected: `"#HAI"`, Found: p.cur()}
	}
	p.next()
	f := &ast.File{Vars: p.vars}

	// At most one head section, optionally a comment, before the body.
	switch p.cur().Kind {
	case token.CommentBegin:
		c, err := p.comment()
		if err != nil {
			return nil, err
		}
		f.List = append(f.List, c)
	case token.HeadBegin:
		h, err := p.head()
		if err != nil {
			return nil, err
		}
		f.List = append(f.List, h)
	}

	for {
		var (
			n   ast.Node
			err error
		)
		switch p.cur().Kind {
		case token.FileEnd:
			p.next()
			if p.cur().Kind != token.EOF {
				return nil, &UnexpectedTokenError{
					Expected: `end of input after "#KTHXBYE"`,
					Found:    p.cur(),
				}
			}
			return f, nil
		case token.EOF:
			return nil, &UnterminatedFileError{Offset: p.cur().Pos}
		case token.ParagraphBegin:
			n, err = p.paragraph()
		case token.ListBegin:
			n, err = p.list()
		case token.BoldBegin:
			n, err = p.styled(token.BoldBegin)
		case token.ItalicBegin:
			n, err = p.styled(token.ItalicBegin)
		case token.Newline:
			p.next()
			n = &ast.Newline{}
		case token.CommentBegin:
			n, err = p.comment()
		case token.SoundBegin:
			n, err = p.sound()
		case token.VideoBegin:
			n, err = p.video()
		case token.DeclareBegin:
			n, err = p.decl()
		case token.Plain:
			n = p.textRun()
		case token.AccessBegin:
			n, err = p.ref()
		default:
			return nil, &UnexpectedTokenError{
				Expected: `a block, text, or "#KTHXBYE"`,
				Found:    p.cur(),
			}
		}
		if err != nil {
			return nil, err
		}
		f.List = append(f.List, n)
	}
}

// head = HeadBegin [ decl ] { ref } title { ref } BlockEnd { comment } .
func (p *parser) head() (*ast.Head, error) {
	begin := p.cur().Pos
	p.next()
	h := &ast.Head{}
	if p.cur().Kind == token.DeclareBegin {
		d, err := p.decl()
		if err != nil {
			return nil, err
		}
		h.List = append(h.List, d)
	}
	for p.cur().Kind == token.AccessBegin {
		r, err := p.ref()
		if err != nil {
			return nil, err
		}
		h.List = append(h.List, r)
	}
	t, err := p.title()
	if err != nil {
		return nil, err
	}
	h.List = append(h.List, t)
	for p.cur().Kind == token.AccessBegin {
		r, err := p.ref()
		if err != nil {
			return nil, err
		}
		h.List = append(h.List, r)
	}
	if err := p.expectEnd(token.BlockEnd, `"#OIC"`, "head", begin); err != nil {
		return nil, err
	}
	for p.cur().Kind == token.CommentBegin {
		c, err := p.comment()
		if err != nil {
			return nil, err
		}
		h.List = append(h.List, c)
	}
	return h, nil
}

// title = TitleBegin text MkayEnd .
func (p *parser) title() (*ast.Title, error) {
	if p.cur().Kind != token.TitleBegin {
		return nil, &UnexpectedTokenError{Expected: `"#GIMMEH TITLE"`, Found: p.cur()}
	}
	begin := p.cur().Pos
	p.next()
	text, err := p.plainSeq("title text")
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(token.MkayEnd, `"#MKAY"`, "title", begin); err != nil {
		return nil, err
	}
	return &ast.Title{Text: text}, nil
}

// paragraph = ParagraphBegin [ decl ] { ... } BlockEnd .
func (p *parser) paragraph() (*ast.Paragraph, error) {
	begin := p.cur().Pos
	p.next()
	par := &ast.Paragraph{}
	if p.cur().Kind == token.DeclareBegin {
		d, err := p.decl()
		if err != nil {
			return nil, err
		}
		par.List = append(par.List, d)
	}
	for {
		var (
			n   ast.Node
			err error
		)
		switch p.cur().Kind {
		case token.BlockEnd:
			p.next()
			return par, nil
		case token.EOF:
			return nil, &UnterminatedBlockError{Block: "paragraf", Offset: begin}
		case token.BoldBegin:
			n, err = p.styled(token.BoldBegin)
		case token.ItalicBegin:
			n, err = p.styled(token.ItalicBegin)
		case token.ListBegin:
			n, err = p.list()
		case token.ItemBegin:
			n, err = p.item()
		case token.Plain:
			n = p.textRun()
		case token.Newline:
			p.next()
			n = &ast.Newline{}
		case token.CommentBegin:
			n, err = p.comment()
		case token.SoundBegin:
			n, err = p.sound()
		case token.VideoBegin:
			n, err = p.video()
		case token.AccessBegin:
			n, err = p.ref()
		default:
			return nil, &UnexpectedTokenError{
				Expected: `paragraf content or "#OIC"`,
				Found:    p.cur(),
			}
		}
		if err != nil {
			return nil, err
		}
		par.List = append(par.List, n)
	}
}

// bold = BoldBegin [ decl ] [ text ] MkayEnd .
// italic is identical up to the opening directive.
func (p *parser) styled(kind token.Kind) (ast.Node, error) {
	begin := p.cur().Pos
	name := "bold"
	if kind == token.ItalicBegin {
		name = "italics"
	}
	p.next()
	var list []ast.Node
	if p.cur().Kind == token.DeclareBegin {
		d, err := p.decl()
		if err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	if p.cur().Kind == token.Plain {
		list = append(list, p.textRun())
	}
	if err := p.expectEnd(token.MkayEnd, `"#MKAY"`, name, begin); err != nil {
		return nil, err
	}
	if kind == token.ItalicBegin {
		return &ast.Italic{List: list}, nil
	}
	return &ast.Bold{List: list}, nil
}

// list = ListBegin { item | ref | comment | Newline } BlockEnd .
func (p *parser) list() (*ast.List, error) {
	begin := p.cur().Pos
	p.next()
	l := &ast.List{}
	for {
		var (
			n   ast.Node
			err error
		)
		switch p.cur().Kind {
		case token.BlockEnd:
			p.next()
			return l, nil
		case token.EOF:
			return nil, &UnterminatedBlockError{Block: "list", Offset: begin}
		case token.ItemBegin:
			n, err = p.item()
		case token.AccessBegin:
			n, err = p.ref()
		case token.CommentBegin:
			n, err = p.comment()
		case token.Newline:
			p.next()
			n = &ast.Newline{}
		default:
			return nil, &UnexpectedTokenError{
				Expected: `"#GIMMEH ITEM" or "#OIC"`,
				Found:    p.cur(),
			}
		}
		if err != nil {
			return nil, err
		}
		l.Items = append(l.Items, n)
	}
}

// item = ItemBegin [ decl ] { text | bold | italic | ref } MkayEnd .
func (p *parser) item() (*ast.Item, error) {
	begin := p.cur().Pos
	p.next()
	it := &ast.Item{}
	if p.cur().Kind == token.DeclareBegin {
		d, err := p.decl()
		if err != nil {
			return nil, err
		}
		it.List = append(it.List, d)
	}
	for {
		var (
			n   ast.Node
			err error
		)
		switch p.cur().Kind {
		case token.Plain:
			n = p.textRun()
		case token.BoldBegin:
			n, err = p.styled(token.BoldBegin)
		case token.ItalicBegin:
			n, err = p.styled(token.ItalicBegin)
		case token.AccessBegin:
			n, err = p.ref()
		default:
			if err := p.expectEnd(token.MkayEnd, `"#MKAY"`, "item", begin); err != nil {
				return nil, err
			}
			return it, nil
		}
		if err != nil {
			return nil, err
		}
		it.List = append(it.List, n)
	}
}

// sound = SoundBegin URLRoot { Plain } Mp3Suffix MkayEnd .
func (p *parser) sound() (*ast.Sound, error) {
	begin := p.cur().Pos
	p.next()
	if p.cur().Kind != token.URLRoot {
		return nil, &UnexpectedTokenError{Expected: `"` + token.URLRootLit + `"`, Found: p.cur()}
	}
	p.next()
	path := p.mediaPath()
	if p.cur().Kind != token.Mp3Suffix {
		if p.cur().Kind == token.EOF {
			return nil, &UnterminatedBlockError{Block: "soundz", Offset: begin}
		}
		return nil, &UnexpectedTokenError{Expected: `".mp3"`, Found: p.cur()}
	}
	suffix := p.cur().Lit
	p.next()
	if err := p.expectEnd(token.MkayEnd, `"#MKAY"`, "soundz", begin); err != nil {
		return nil, err
	}
	return &ast.Sound{Path: path, Suffix: suffix}, nil
}

// video = VideoBegin YoutubeRoot { Plain } MkayEnd .
func (p *parser) video() (*ast.Video, error) {
	begin := p.cur().Pos
	p.next()
	if p.cur().Kind != token.YoutubeRoot {
		return nil, &UnexpectedTokenError{Expected: `"` + token.YoutubeRootLit + `"`, Found: p.cur()}
	}
	p.next()
	path := p.mediaPath()
	if err := p.expectEnd(token.MkayEnd, `"#MKAY"`, "vidz", begin); err != nil {
		return nil, err
	}
	return &ast.Video{Path: path}, nil
}

// decl = DeclareBegin text DeclareMid text MkayEnd .
// The binding takes effect immediately; redeclaring overwrites.
func (p *parser) decl() (*ast.VarDecl, error) {
	begin := p.cur().Pos
	p.next()
	name, err := p.plainSeq("variable name")
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != token.DeclareMid {
		return nil, &UnexpectedTokenError{Expected: `"#IT IZ"`, Found: p.cur()}
	}
	p.next()
	value, err := p.plainSeq("variable value")
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(token.MkayEnd, `"#MKAY"`, "variable declaration", begin); err != nil {
		return nil, err
	}
	p.vars[name] = value
	return &ast.VarDecl{Name: name, Value: value}, nil
}

// ref = AccessBegin text MkayEnd .
func (p *parser) ref() (*ast.VarRef, error) {
	begin := p.cur().Pos
	p.next()
	name, err := p.plainSeq("variable name")
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(token.MkayEnd, `"#MKAY"`, "variable reference", begin); err != nil {
		return nil, err
	}
	if _, ok := p.vars[name]; !ok {
		return nil, &UndefinedVariableError{Name: name, Offset: begin}
	}
	return &ast.VarRef{Name: name}, nil
}

// comment = CommentBegin { Plain } CommentEnd .
func (p *parser) comment() (*ast.Comment, error) {
	begin := p.cur().Pos
	p.next()
	var parts []string
	for p.cur().Kind == token.Plain {
		parts = append(parts, p.cur().Lit)
		p.next()
	}
	if err := p.expectEnd(token.CommentEnd, `"#TLDR"`, "comment", begin); err != nil {
		return nil, err
	}
	return &ast.Comment{Text: strings.Join(parts, " ")}, nil
}

// textRun merges consecutive Plain tokens into one text node, joined by
// single spaces.
func (p *parser) textRun() *ast.Text {
	var parts []string
	for p.cur().Kind == token.Plain {
		parts = append(parts, p.cur().Lit)
		p.next()
	}
	return &ast.Text{Body: strings.Join(parts, " ")}
}

// plainSeq requires at least one Plain token and merges the run.
func (p *parser) plainSeq(what string) (string, error) {
	if p.cur().Kind != token.Plain {
		return "", &UnexpectedTokenError{Expected: what, Found: p.cur()}
	}
	return p.textRun().Body, nil
}

// mediaPath concatenates the free-form Plain tokens of a media URL with
// no separators.
func (p *parser) mediaPath() string {
	var b strings.Builder
	for p.cur().Kind == token.Plain {
		b.WriteString(p.cur().Lit)
		p.next()
	}
	return b.String()
}
