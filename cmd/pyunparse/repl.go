package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/raymyers/pyunparse/pkg/parser"
	"github.com/raymyers/pyunparse/pkg/unparse"
)

const (
	promptMain  = ">>> "
	promptCont  = "... "
	historyFile = ".pyunparse_history"
)

// lineReader is the part of liner.State the loop needs
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

func newReplCmd(out, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read statements interactively and print them normalized",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ln := liner.NewLiner()
			defer ln.Close()
			ln.SetCtrlCAborts(true)

			if histPath, ok := historyPath(); ok {
				if f, err := os.Open(histPath); err == nil {
					_, _ = ln.ReadHistory(f)
					_ = f.Close()
				}
				defer func() {
					if f, err := os.Create(histPath); err == nil {
						_, _ = ln.WriteHistory(f)
						_ = f.Close()
					}
				}()
			}

			return repl(ln, out, errOut)
		},
	}
}

// historyPath locates the history file in the home directory. History is
// not kept when there is no home directory.
func historyPath() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", false
	}
	return filepath.Join(home, historyFile), true
}

// repl echoes each complete input as rendered source until end of input
func repl(r lineReader, out, errOut io.Writer) error {
	printer := unparse.NewPrinter(out)
	for {
		src, ok := readByParseProbe(r, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		for _, line := range strings.Split(src, "\n") {
			r.AppendHistory(line)
		}

		mod, err := parser.ParseModule(src + "\n")
		if err != nil {
			fmt.Fprintf(errOut, "pyunparse: %v\n", err)
			continue
		}
		if err := printer.Print(mod); err != nil {
			fmt.Fprintf(errOut, "pyunparse: %v\n", err)
		}
	}
}

// readByParseProbe reads lines until they form a complete input. A first
// line ending in ':' opens a block that only a blank line closes; otherwise
// reading continues while the parser reports the input as incomplete.
// It returns false at end of input.
func readByParseProbe(r lineReader, prompt, cont string) (string, bool) {
	var b strings.Builder
	block := false

	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := r.Prompt(p)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}

		blank := strings.TrimSpace(line) == ""
		if b.Len() == 0 {
			if blank {
				return "", true
			}
			block = strings.HasSuffix(strings.TrimSpace(line), ":")
		} else {
			if blank && block {
				return b.String(), true
			}
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if block {
			continue
		}

		src := b.String()
		if _, perr := parser.ParseModule(src + "\n"); perr != nil && parser.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}
