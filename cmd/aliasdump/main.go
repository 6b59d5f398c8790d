package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wanfu920/jumpToAliasFile/internal/alias"
	"github.com/wanfu920/jumpToAliasFile/internal/indexer"
	"github.com/wanfu920/jumpToAliasFile/internal/resolver"
	treesitterhelper "github.com/wanfu920/jumpToAliasFile/internal/tree_sitter_helper"
	"github.com/wanfu920/jumpToAliasFile/internal/webpack"
)

func main() {
	log.SetFlags(0)

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "aliasdump",
		Short:        "Inspect the webpack aliases the language server discovers",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newAliasesCommand(), newResolveCommand(), newASTCommand())
	return rootCmd
}

func newAliasesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "aliases [project_root]",
		Short: "Print the projects, webpack configs and aliases found in a workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			absRoot, err := filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("failed to get absolute path: %w", err)
			}

			printResult(cmd.OutOrStdout(), discover(cmd.Context(), absRoot))
			return nil
		},
	}
}

func newResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <project_root> <file> <line> <column>",
		Short: "Resolve the import at a zero based position like a definition request",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("failed to get absolute path: %w", err)
			}
			file, err := filepath.Abs(args[1])
			if err != nil {
				return fmt.Errorf("failed to get absolute path: %w", err)
			}
			line, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid line %q: %w", args[2], err)
			}
			column, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("invalid column %q: %w", args[3], err)
			}

			target, err := resolvePosition(cmd.Context(), root, file, line, column)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), target)
			return nil
		},
	}
}

func newASTCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ast <file>",
		Short: "Print the syntax tree of a webpack config or package.json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dumpAST(cmd.OutOrStdout(), args[0])
		},
	}
}

func discover(ctx context.Context, root string) webpack.Result {
	loader := webpack.NewLoader(nil)
	defer func() { _ = loader.Close() }()

	return webpack.NewDiscoverer(root, loader).Run(ctx)
}

func printResult(w io.Writer, result webpack.Result) {
	fmt.Fprintf(w, "Projects (%d):\n", len(result.Projects))
	for _, project := range result.Projects {
		fmt.Fprintf(w, "  %s\n", project.Dir)
	}

	fmt.Fprintf(w, "\nWebpack configs (%d):\n", len(result.ConfigPaths))
	for _, path := range result.ConfigPaths {
		fmt.Fprintf(w, "  %s\n", path)
	}

	fmt.Fprintf(w, "\nAliases (%d):\n", len(result.Aliases))
	for _, key := range result.Aliases.Keys() {
		fmt.Fprintf(w, "  %s => %s\n", key, result.Aliases[key])
	}
}

func resolvePosition(ctx context.Context, root, file string, line, column int) (string, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", file, err)
	}

	lines := strings.Split(string(content), "\n")
	if line < 0 || line >= len(lines) {
		return "", fmt.Errorf("line %d is outside of %s", line, file)
	}

	r := resolver.NewResolver(root, staticTable(discover(ctx, root).Aliases))

	target, ok := r.Resolve(ctx, resolver.Request{
		FilePath:   file,
		Line:       strings.TrimSuffix(lines[line], "\r"),
		LineNumber: line,
		Character:  column,
	})
	if !ok {
		return "", fmt.Errorf("no definition found at %s:%d:%d", file, line, column)
	}
	return target.Path, nil
}

func dumpAST(w io.Writer, file string) error {
	content, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}

	parsers := indexer.CreateTreesitterParsers()
	defer indexer.CloseTreesitterParsers(parsers)

	parser := indexer.ParserForFile(parsers, file)
	if parser == nil {
		return fmt.Errorf("unsupported file type: %s", file)
	}

	tree := parser.Parse(content, nil)
	if tree == nil {
		return fmt.Errorf("failed to parse %s", file)
	}
	defer tree.Close()

	fmt.Fprintf(w, "Analyzing AST for file: %s\n\n", file)
	treesitterhelper.PrintAllNodes(w, tree.RootNode(), content, "")
	return nil
}

type staticTable alias.Table

func (t staticTable) Snapshot() alias.Table {
	return alias.Table(t)
}
