// Package ast declares the syntax tree produced by parsing a lolmark
// document. The tree and the variable table are built once during parsing
// and are never mutated afterwards; the HTML generator consumes them
// read-only.
package ast

// Node is implemented by every syntax-tree node.
type Node interface {
	node()
}

// File is the document root, bounded in source by the file-begin and
// file-end markers. Vars is the document's variable table: every
// declaration encountered during parsing populates it, regardless of
// nesting depth, and a later declaration of the same name overwrites the
// earlier value.
type File struct {
	List []Node
	Vars map[string]string
}

// Head is the optional head section. Its children are declarations,
// variable references, the Title, and trailing comments, in document
// order.
type Head struct {
	List []Node
}

// Title is the document title inside a head section.
type Title struct {
	Text string
}

type Paragraph struct {
	List []Node
}

type Bold struct {
	List []Node
}

type Italic struct {
	List []Node
}

type List struct {
	Items []Node
}

type Item struct {
	List []Node
}

// Newline is an explicit line break directive.
type Newline struct{}

// Sound is an audio embed. The rendered source is the generic URL root
// followed by Path and Suffix (".mp3" or ".MP3", as spelled in source).
type Sound struct {
	Path   string
	Suffix string
}

// Video is a video embed. The rendered source is the YouTube root
// followed by Path.
type Video struct {
	Path string
}

// VarDecl records a variable declaration. Its side effect on File.Vars is
// applied by the parser; the node itself renders nothing.
type VarDecl struct {
	Name  string
	Value string
}

// VarRef is a reference to a previously declared variable.
type VarRef struct {
	Name string
}

// Comment is kept in the tree but never rendered.
type Comment struct {
	Text string
}

// Text is a run of plain document text.
type Text struct {
	Body string
}

func (*File) node()      {}
func (*Head) node()      {}
func (*Title) node()     {}
func (*Paragraph) node() {}
func (*Bold) node()      {}
func (*Italic) node()    {}
func (*List) node()      {}
func (*Item) node()      {}
func (*Newline) node()   {}
func (*Sound) node()     {}
func (*Video) node()     {}
func (*VarDecl) node()   {}
func (*VarRef) node()    {}
func (*Comment) node()   {}
func (*Text) node()      {}

// Walker rewrites a node. Returning nil deletes the node from its parent.
type Walker func(Node) (Node, error)

// Walk applies f to n and recursively to the children of every container
// node. A child for which f returns nil is removed from its parent's
// list.
func Walk(n Node, f Walker) (Node, error) {
	if n == nil {
		return nil, nil
	}
	nn, err := f(n)
	if err != nil || nn == nil {
		return nn, err
	}
	switch t := nn.(type) {
	case *File:
		t.List, err = walkList(t.List, f)
	case *Head:
		t.List, err = walkList(t.List, f)
	case *Paragraph:
		t.List, err = walkList(t.List, f)
	case *Bold:
		t.List, err = walkList(t.List, f)
	case *Italic:
		t.List, err = walkList(t.List, f)
	case *List:
		t.Items, err = walkList(t.Items, f)
	case *Item:
		t.List, err = walkList(t.List, f)
	}
	return nn, err
}

func walkList(list []Node, f Walker) ([]Node, error) {
	out := list[:0]
	for _, c := range list {
		n, err := Walk(c, f)
		if err != nil {
			return list, err
		}
		if n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}
