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

// Tests for html.go
package html

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"lolmark/ast"
	"lolmark/parser"
)

const (
	pre  = "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n</head>\n<body>\n"
	post = "</body>\n</html>"
)

type smallcase struct {
	in   string
	want string
}

func runSmall(t *testing.T, cases []smallcase) {
	t.Helper()
	for i, test := range cases {
		f := parser.MustParse(strings.NewReader(test.in))
		b, err := Gen(f).Output()
		if err != nil {
			t.Errorf("case %d, in %q, unexpected error %v", i, test.in, err)
			continue
		}
		if got := string(b); test.want != got {
			t.Errorf("case %d, in %q,\nwant %q,\ngot %q", i, test.in, test.want, got)
		}
	}
}

var bodySmall = []smallcase{
	{"#hai #kthxbye", pre + post},
	{"#hai he said \"hi\" #kthxbye", pre + "he said &#34;hi&#34;" + post},
	{"#hai #gimmeh newline #kthxbye", pre + "<br>\n" + post},
	{"#hai #obtw ignore me #tldr #kthxbye", pre + post},
	{"#hai #maek paragraf hello #gimmeh bold big #mkay #gimmeh italics lean #mkay #maek list #gimmeh item one #mkay #oic #oic #kthxbye",
		pre + "<p>\nhello<b>big</b><i>lean</i><ul>\n<li>one</li>\n</ul>\n</p>\n" + post},
	{"#hai #gimmeh soundz http://www.boom.mp3 #mkay #kthxbye",
		pre + "<audio controls src=\"http://www.boom.mp3\"></audio>\n" + post},
	{"#hai #gimmeh vidz http://www.youtube.com/abc #mkay #kthxbye",
		pre + "<video controls src=\"http://www.youtube.com/abc\"></video>\n" + post},
}

func TestBody(t *testing.T) {
	runSmall(t, bodySmall)
}

func TestHead(t *testing.T) {
	runSmall(t, []smallcase{
		{"#hai #maek head #gimmeh title my page #mkay #oic #kthxbye",
			"<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n<title>my page</title>\n</head>\n<body>\n" + post},
	})
}

// A variable referenced inside the head emits its stored value there,
// the same substitution rule as everywhere else.
func TestHeadVarRef(t *testing.T) {
	runSmall(t, []smallcase{
		{"#hai #maek head #i haz X #it iz 5 #mkay #lemme see X #mkay #gimmeh title my page #mkay #oic #kthxbye",
			"<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n5<title>my page</title>\n</head>\n<body>\n" + post},
		{"#hai #maek head #i haz X #it iz \"boo\" #mkay #gimmeh title my page #mkay #lemme see X #mkay #oic #kthxbye",
			"<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n<title>my page</title>\n&#34;boo&#34;</head>\n<body>\n" + post},
	})
}

// References read the table after the whole document has parsed, so a
// redeclared name substitutes its final value everywhere.
func TestVarSubstitution(t *testing.T) {
	runSmall(t, []smallcase{
		{"#hai #maek paragraf #i haz X #it iz 5 #mkay #lemme see X #mkay #oic #kthxbye",
			pre + "<p>\n5</p>\n" + post},
		{"#hai #i haz X #it iz 5 #mkay #lemme see X #mkay #i haz X #it iz 9 #mkay #lemme see X #mkay #kthxbye",
			pre + "99" + post},
	})
}

// Variable values pass through the same escaping as literal text.
func TestVarEscape(t *testing.T) {
	runSmall(t, []smallcase{
		{"#hai #i haz X #it iz \"boo\" #mkay #lemme see X #mkay #kthxbye",
			pre + "&#34;boo&#34;" + post},
	})
}

// Deleting every comment node from the tree must not change the output.
func TestCommentRemovalEquivalence(t *testing.T) {
	in := "#hai #obtw one #tldr #maek paragraf hello #obtw more #tldr #oic #kthxbye"
	f := parser.MustParse(strings.NewReader(in))
	before, err := Gen(f).Output()
	if err != nil {
		t.Fatal(err)
	}
	_, err = ast.Walk(f, func(n ast.Node) (ast.Node, error) {
		if _, ok := n.(*ast.Comment); ok {
			return nil, nil
		}
		return n, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	after, err := Gen(f).Output()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Errorf("output changed after comment removal,\nbefore %q,\nafter %q", before, after)
	}
}

func TestDeterministic(t *testing.T) {
	in := "#hai #i haz X #it iz 5 #mkay #maek paragraf #lemme see X #mkay hello #oic #kthxbye"
	f := parser.MustParse(strings.NewReader(in))
	first, err := Gen(f).Output()
	if err != nil {
		t.Fatal(err)
	}
	second, err := Gen(f).Output()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("two runs differ,\nfirst %q,\nsecond %q", first, second)
	}
}

// A canceled context halts generation between top-level nodes, leaving
// the document unterminated.
func TestContextCancel(t *testing.T) {
	f := parser.MustParse(strings.NewReader("#hai hello #kthxbye"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b, err := GenContext(ctx, f).Output()
	if err != nil {
		t.Fatal(err)
	}
	if got := string(b); !strings.HasSuffix(got, "<body>\n") {
		t.Errorf("want output truncated at the body open tag, got %q", got)
	}
}

func TestOutputStdoutAlreadySet(t *testing.T) {
	g := Gen(parser.MustParse(strings.NewReader("#hai #kthxbye")))
	g.Stdout = &bytes.Buffer{}
	if _, err := g.Output(); err == nil {
		t.Error("want error when Stdout is already set")
	}
}

func TestWaitBeforeStart(t *testing.T) {
	g := Gen(parser.MustParse(strings.NewReader("#hai #kthxbye")))
	if err := g.Wait(); err == nil {
		t.Error("want error from Wait before Start")
	}
}
