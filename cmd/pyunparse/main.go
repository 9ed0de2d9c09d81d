package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/raymyers/pyunparse/pkg/parser"
	"github.com/raymyers/pyunparse/pkg/pyast"
	"github.com/raymyers/pyunparse/pkg/treeyaml"
	"github.com/raymyers/pyunparse/pkg/unparse"
)

var version = "0.1.0"

// Flags selecting the input form and the output
var (
	treeInput bool // input is a YAML tree instead of source
	dumpTree  bool // print the tree as YAML instead of rendering it
	checkFlag bool // verify that the rendering parses back to the same tree
	statsFlag bool // report the maximum render depth
	exprMode  bool // input is a single expression
)

// ErrRoundTrip indicates that re-parsing the rendered source gave a
// different tree
var ErrRoundTrip = errors.New("round trip changed the tree")

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pyunparse: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pyunparse [file]",
		Short: "pyunparse prints Python syntax trees as minimal source",
		Long: `pyunparse parses Python source, or reads a syntax tree stored as
YAML, and prints it back as source text with only the parentheses
the operator precedence requires. Use - to read standard input.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			filename := args[0]
			input, err := readInput(filename, cmd.InOrStdin())
			if err != nil {
				return err
			}

			node, err := loadTree(filename, input)
			if err != nil {
				return err
			}

			if dumpTree {
				data, err := treeyaml.Marshal(node)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			text, stats, err := unparse.RenderStats(node)
			if err != nil {
				return errors.Wrap(err, filename)
			}
			if checkFlag {
				if err := checkRoundTrip(node, text); err != nil {
					return errors.Wrap(err, filename)
				}
			}
			if text != "" {
				fmt.Fprintln(out, text)
			}
			if statsFlag {
				fmt.Fprintf(errOut, "pyunparse: %s: max depth %d\n", filename, stats.MaxDepth)
			}
			return nil
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().BoolVar(&treeInput, "tree", false, "Read a YAML syntax tree instead of source")
	rootCmd.Flags().BoolVar(&dumpTree, "dtree", false, "Dump the syntax tree as YAML")
	rootCmd.Flags().BoolVar(&checkFlag, "check", false, "Verify that the output parses back to the same tree")
	rootCmd.Flags().BoolVar(&statsFlag, "stats", false, "Report the maximum render depth on stderr")
	rootCmd.Flags().BoolVarP(&exprMode, "expr", "e", false, "Treat the input as a single expression")

	rootCmd.AddCommand(newReplCmd(out, errOut))
	return rootCmd
}

// readInput reads the named file, or stdin for "-"
func readInput(filename string, stdin io.Reader) ([]byte, error) {
	if filename == "-" {
		data, err := io.ReadAll(stdin)
		return data, errors.Wrap(err, "reading stdin")
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading %s", filename)
	}
	return data, nil
}

// loadTree decodes a YAML tree or parses source, depending on the flags
func loadTree(filename string, input []byte) (pyast.Node, error) {
	if treeInput {
		node, err := treeyaml.Unmarshal(input)
		if err != nil {
			return nil, errors.Wrap(err, filename)
		}
		if node == nil {
			return nil, errors.Errorf("%s: empty tree", filename)
		}
		return node, nil
	}
	node, err := parseSource(string(input))
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}
	return node, nil
}

func parseSource(src string) (pyast.Node, error) {
	if exprMode {
		e, err := parser.ParseExpression(src)
		if err != nil {
			return nil, err
		}
		return pyast.Expression{Body: e}, nil
	}
	return parser.ParseModule(src)
}

// checkRoundTrip parses text in the mode matching node and compares trees
func checkRoundTrip(node pyast.Node, text string) error {
	var (
		again pyast.Node
		err   error
	)
	switch n := node.(type) {
	case pyast.Module:
		again, err = parser.ParseModule(text + "\n")
	case pyast.Expression:
		var e pyast.Expr
		e, err = parser.ParseExpression(text)
		again = pyast.Expression{Body: e}
	case pyast.Expr:
		again, err = parser.ParseExpression(text)
	default:
		return errors.Errorf("cannot check a %T tree", n)
	}
	if err != nil {
		return errors.Wrapf(err, "rendered source does not parse")
	}
	if !pyast.Equal(node, again) {
		return errors.Wrapf(ErrRoundTrip, "(-input +reparsed):\n%s", pyast.Diff(node, again))
	}
	return nil
}
