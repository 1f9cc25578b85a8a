package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arborq/arborq/internal/querycomp"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
	Name   string // filter name inside a CUE definition file
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <expression-file>",
		Short: "Compile an expression file to query arguments",
		Long: `Compile a filter expression to the target query argument map.

The expression file is a YAML document or a CUE definition file. The
compiled arguments are printed as JSON, or written with --output.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.Name, "name", "", "filter name inside a CUE definition file")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	rendered, err := compileFile(formatter, opts, path)
	if err != nil {
		return err
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, append(rendered, '\n'), 0o644); err != nil {
			formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return NewExitError(ExitCommandError, "write failed")
		}
		formatter.VerboseLog("Wrote %s", opts.Output)
	}

	if opts.Format == "json" {
		return formatter.Success(json.RawMessage(rendered))
	}
	fmt.Fprintln(formatter.Writer, string(rendered))
	return nil
}

// compileFile loads, compiles, and renders one expression file.
func compileFile(formatter *OutputFormatter, opts *CompileOptions, path string) ([]byte, error) {
	root, err := LoadExpression(path, opts.Name)
	if err != nil {
		formatter.Error(ErrCodeParse, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "load failed", err)
	}
	formatter.VerboseLog("Loaded expression from %s", path)

	out, err := querycomp.New().Compile(root)
	if err != nil {
		formatter.Error(ErrCodeCompile, err.Error(), nil)
		return nil, WrapExitError(ExitFailure, "compile failed", err)
	}

	rendered, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return nil, WrapExitError(ExitFailure, "render failed", err)
	}
	return rendered, nil
}
