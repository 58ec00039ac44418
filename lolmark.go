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

// This CLI utility runs a command listed below to run its
// corresponding output generator on a lolmark source file.
//
// Usage:
//   lolmark [command]
//
// Available Commands:
//   help        Help about any command
//   html        HTML output generator for lolmark source files
//
// Flags:
//   -h, --help   help for lolmark
//
// Use "lolmark [command] --help" for more information about a command.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	sq "github.com/kballard/go-shellquote"
	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"

	"lolmark/config"
	"lolmark/gen/html"
	"lolmark/parser"
)

func prefix(msg string, err error) error {
	return errors.New(msg + err.Error())
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "lolmark generator",
		Short: "output generation for lolmark source files",
		Long: `This CLI utility runs a command listed below to run its
corresponding output generator on a lolmark source file.`,
	}

	var (
		outputfile string
		timeout    time.Duration
		dumpAST    bool
		openCmd    string
		cfgPath    string
	)
	prefixHTML := "(HTML) "
	htmlCmd := &cobra.Command{
		Use:   "html [input] [-o output]",
		Short: "HTML output generator for lolmark source files",
		Long: `This command translates a lolmark source document into an HTML
document. The document is tokenized and parsed into a syntax tree plus
a variable table, and rendered in document order. Translation is all or
nothing: the first error aborts with no partial output.

If no input file is specified, input is read from
standard input. Similarly, if no output argument is
specified, output is written to standard output.`,
		Args:                  cobra.MaximumNArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return prefix(prefixHTML, err)
			}
			if outputfile == "" {
				outputfile = cfg.Output
			}
			if openCmd == "" {
				openCmd = cfg.Open
			}
			if timeout < 0 && cfg.Timeout > 0 {
				timeout = time.Duration(cfg.Timeout)
			}

			src := os.Stdin
			if len(args) != 0 {
				if filepath.Ext(args[0]) != ".lol" {
					return prefix(prefixHTML, fmt.Errorf("input file %q must have a .lol extension", args[0]))
				}
				src, err = os.Open(args[0])
				if err != nil {
					return prefix(prefixHTML, err)
				}
			}
			defer src.Close()
			out := os.Stdout
			if len(outputfile) != 0 {
				out, err = os.Create(outputfile)
				if err != nil {
					return prefix(prefixHTML, err)
				}
			}
			defer out.Close()
			file, err := parser.Parse(src)
			if err != nil {
				return prefix(prefixHTML, err)
			}
			if dumpAST {
				litCfg := litter.Options{
					Compact:   true,
					Separator: " ",
				}
				fmt.Fprintln(cmd.ErrOrStderr(), litCfg.Sdump(file))
			}
			ctx := context.Background()
			if timeout > -1 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			g := html.GenContext(ctx, file)
			g.Stdout = out
			if err := g.Run(); err != nil {
				return prefix(prefixHTML, err)
			}
			if openCmd != "" {
				if len(outputfile) == 0 {
					return prefix(prefixHTML, errors.New("--open requires an output file"))
				}
				words, err := sq.Split(openCmd)
				if err != nil {
					return prefix(prefixHTML, err)
				}
				if len(words) == 0 {
					return prefix(prefixHTML, fmt.Errorf("no valid open command: %q", openCmd))
				}
				oc := exec.CommandContext(ctx, words[0], append(words[1:], outputfile)...)
				oc.Stdout = cmd.OutOrStdout()
				oc.Stderr = cmd.ErrOrStderr()
				if err := oc.Run(); err != nil {
					return prefix(prefixHTML, err)
				}
			}
			return nil
		},
	}
	htmlCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		if err != nil {
			return prefix(prefixHTML, err)
		}
		return nil
	})
	// pflag includes the argument type when it unquotes its usage.
	// To prevent this behavior we prefix the usage with backquotes ``.
	htmlCmd.Flags().StringVarP(&outputfile, "output", "o", "", "``name of the output file")
	htmlCmd.Flags().DurationVarP(&timeout, "timeout", "t", -1, "``timeout used to halt generation of large documents")
	htmlCmd.Flags().BoolVar(&dumpAST, "ast", false, "dump the parsed syntax tree to standard error")
	htmlCmd.Flags().StringVar(&openCmd, "open", "", "``command run on the generated file, e.g. a browser")
	htmlCmd.Flags().StringVar(&cfgPath, "config", "lolmark.toml", "``path of the optional TOML config file")
	// Set string version of default value to be zero-value to prevent it from being printed by FlagUsages.
	htmlCmd.Flags().Lookup("timeout").DefValue = "0"

	rootCmd.AddCommand(htmlCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
