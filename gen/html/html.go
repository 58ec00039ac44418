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

// Package html converts a lolmark syntax tree into an HTML document.
// Every text emission path is escaped, including substituted variable
// values.
//
// AST nodes correspond to the following HTML output:
//	File                <!DOCTYPE html> skeleton with head and body sections
//	Head                <head> with <meta charset="UTF-8">, the title, and
//	                    any variable references in document order
//	Title               <title></title>
//	Paragraph           <p></p>
//	Bold                <b></b>
//	Italic              <i></i>
//	List / Item         <ul></ul> / <li></li>
//	Newline             <br>
//	Sound               <audio controls src=""></audio>
//	Video               <video controls src=""></video>
//	VarRef              the variable's stored value, escaped
//	VarDecl, Comment    nothing
//	Text                escaped literal text
package html

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"io/ioutil"
	"sync"

	"lolmark/ast"
	"lolmark/token"
)

type stickyCountWriter struct {
	n   int64
	err error
	w   io.Writer
}

func (c *stickyCountWriter) Write(p []byte) (n int, err error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err = c.w.Write(p)
	c.err = err
	c.n += int64(n)
	return
}

// Generator represents a non-reusable HTML output generator for an
// *ast.File.
type Generator struct {
	// Stdout specifies the generator's standard output, where the HTML
	// document is written.
	Stdout   io.Writer
	ctx      context.Context
	file     *ast.File
	waitdone chan error

	m     sync.Mutex
	pipes []io.Closer
}

// Gen returns the Generator struct to convert the given file into HTML
// output.
//
// It sets only the file in the returned structure.
func Gen(file *ast.File) *Generator {
	return &Generator{ctx: context.TODO(), file: file}
}

// GenContext is like Gen but includes a context.
//
// The provided context is used to halt HTML generation between top-level
// nodes of the document.
func GenContext(ctx context.Context, file *ast.File) *Generator {
	if ctx == nil {
		panic("nil context")
	}
	return &Generator{ctx: ctx, file: file}
}

// Start starts the generator but does not wait for it to complete.
func (g *Generator) Start() error {
	if g.Stdout == nil {
		g.Stdout = ioutil.Discard
	}
	g.waitdone = make(chan error)
	go func() {
		err := g.gen()
		for _, p := range g.pipes {
			p.Close()
		}
		g.m.Lock()
		g.pipes = nil
		g.m.Unlock()
		g.waitdone <- err
	}()
	return nil
}

// Wait waits for the generator to complete and finish copying to Stdout.
// It is an error to call Wait before Start has been called.
//
// Wait will release any resources associated with the generator.
func (g *Generator) Wait() error {
	if g.waitdone == nil {
		return fmt.Errorf("not started")
	}
	// prevent callers to Wait from a deadlock via not waiting for pipes to close
	g.m.Lock()
	if g.pipes != nil {
		g.m.Unlock()
		return fmt.Errorf("all reads from the pipe have not completed")
	}
	g.m.Unlock()
	err := <-g.waitdone
	close(g.waitdone)
	return err
}

// Run starts the generator and waits for it to complete, returning any
// errors encountered.
func (g *Generator) Run() error {
	if err := g.Start(); err != nil {
		return err
	}
	return g.Wait()
}

// StdoutPipe returns a pipe that is connected to the generator's
// standard output.
//
// It is invalid to call Wait until all reads from the pipe have
// completed. For the same reason, it is invalid to call Run when using
// StdoutPipe.
func (g *Generator) StdoutPipe() (io.Reader, error) {
	if g.Stdout != nil {
		return nil, fmt.Errorf("Stdout already set")
	}
	pr, pw := io.Pipe()
	g.Stdout = pw
	g.pipes = append(g.pipes, pw)
	return pr, nil
}

// Output runs the generator and returns its standard output.
func (g *Generator) Output() ([]byte, error) {
	if g.Stdout != nil {
		return nil, fmt.Errorf("Stdout already set")
	}
	var stdout bytes.Buffer
	g.Stdout = &stdout
	err := g.Run()
	return stdout.Bytes(), err
}

func (g *Generator) gen() error {
	cw := &stickyCountWriter{0, nil, g.Stdout}
	cw.Write([]byte("<!DOCTYPE html>\n<html>\n"))

	// The head section, when present, is the first node of the file.
	var head *ast.Head
	body := g.file.List
	if len(body) > 0 {
		if h, ok := body[0].(*ast.Head); ok {
			head = h
			body = body[1:]
		}
	}
	g.head(head, cw)

	cw.Write([]byte("<body>\n"))
	for _, n := range body {
		select {
		case <-g.ctx.Done():
			return cw.err
		default:
			g.node(n, cw)
		}
	}
	cw.Write([]byte("</body>\n</html>"))
	return cw.err
}

func (g *Generator) head(h *ast.Head, w io.Writer) {
	w.Write([]byte("<head>\n<meta charset=\"UTF-8\">\n"))
	if h != nil {
		for _, n := range h.List {
			switch t := n.(type) {
			case *ast.Title:
				fmt.Fprintf(w, "<title>%s</title>\n", html.EscapeString(t.Text))
			case *ast.VarRef:
				w.Write([]byte(html.EscapeString(g.file.Vars[t.Name])))
			}
			// Declarations were applied during parsing and comments
			// never render.
		}
	}
	w.Write([]byte("</head>\n"))
}

func (g *Generator) node(n ast.Node, w io.Writer) {
	switch t := n.(type) {
	case *ast.Paragraph:
		w.Write([]byte("<p>\n"))
		g.nodes(t.List, w)
		w.Write([]byte("</p>\n"))
	case *ast.Bold:
		w.Write([]byte("<b>"))
		g.nodes(t.List, w)
		w.Write([]byte("</b>"))
	case *ast.Italic:
		w.Write([]byte("<i>"))
		g.nodes(t.List, w)
		w.Write([]byte("</i>"))
	case *ast.List:
		w.Write([]byte("<ul>\n"))
		g.nodes(t.Items, w)
		w.Write([]byte("</ul>\n"))
	case *ast.Item:
		w.Write([]byte("<li>"))
		g.nodes(t.List, w)
		w.Write([]byte("</li>\n"))
	case *ast.Newline:
		w.Write([]byte("<br>\n"))
	case *ast.Sound:
		src := token.URLRootLit + t.Path + t.Suffix
		fmt.Fprintf(w, "<audio controls src=\"%s\"></audio>\n", html.EscapeString(src))
	case *ast.Video:
		src := token.YoutubeRootLit + t.Path
		fmt.Fprintf(w, "<video controls src=\"%s\"></video>\n", html.EscapeString(src))
	case *ast.VarRef:
		w.Write([]byte(html.EscapeString(g.file.Vars[t.Name])))
	case *ast.Text:
		w.Write([]byte(html.EscapeString(t.Body)))
	case *ast.VarDecl, *ast.Comment:
		// non-rendering
	}
}

func (g *Generator) nodes(list []ast.Node, w io.Writer) {
	for _, n := range list {
		g.node(n, w)
	}
}
