package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"grc-integrator/internal/library"

	"github.com/spf13/cobra"
)

func readLibrary(path string) (*library.Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return library.Parse(data)
}

func newConvertCmd() *cobra.Command {
	var outputType string

	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Convert a framework library file into OpenGRC format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := readLibrary(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, library.ToOpenGRC(lib, outputType))
		},
	}
	cmd.Flags().StringVarP(&outputType, "type", "t", library.OutputFull, "output: bundle, standard or full")
	return cmd
}

func newTreeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tree FILE",
		Short: "Print the requirement hierarchy of a library file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := readLibrary(args[0])
			if err != nil {
				return err
			}
			roots := library.BuildTree(lib.Nodes())
			if asJSON {
				return printJSON(cmd, roots)
			}
			for _, r := range roots {
				printNode(cmd.OutOrStdout(), r, 0)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the tree as JSON")
	return cmd
}

func printNode(w io.Writer, n *library.TreeNode, level int) {
	mark := ""
	if n.Assessable {
		mark = " *"
	}
	fmt.Fprintf(w, "%s%s %s%s\n", strings.Repeat("  ", level), n.RefID, n.Name, mark)
	for _, ch := range n.Children {
		printNode(w, ch, level+1)
	}
}
