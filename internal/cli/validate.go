package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arborq/arborq/internal/catalog"
	"github.com/arborq/arborq/internal/querycomp"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Catalog string // catalog database path
	Name    string // filter name inside a CUE definition file
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <expression-file>",
		Short: "Compile an expression and check it against a catalog",
		Long: `Compile a filter expression and check every taxonomy name and
attribute key it references against a catalog database.

Unknown names are reported as findings and fail the command; they do not
change the compiled output.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "catalog database path (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "filter name inside a CUE definition file")
	cmd.MarkFlagRequired("catalog")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	root, err := LoadExpression(path, opts.Name)
	if err != nil {
		formatter.Error(ErrCodeParse, err.Error(), nil)
		return WrapExitError(ExitCommandError, "load failed", err)
	}

	out, err := querycomp.New().Compile(root)
	if err != nil {
		formatter.Error(ErrCodeCompile, err.Error(), nil)
		return WrapExitError(ExitFailure, "compile failed", err)
	}

	store, err := catalog.Open(opts.Catalog)
	if err != nil {
		formatter.Error(ErrCodeCatalog, err.Error(), nil)
		return WrapExitError(ExitCommandError, "catalog unavailable", err)
	}
	defer store.Close()

	issues, err := catalog.Validate(cmd.Context(), store, out)
	if err != nil {
		formatter.Error(ErrCodeCatalog, err.Error(), nil)
		return WrapExitError(ExitCommandError, "catalog query failed", err)
	}

	if len(issues) > 0 {
		details := make([]string, len(issues))
		for i, issue := range issues {
			details[i] = issue.String()
		}
		formatter.Error(ErrCodeValidate,
			fmt.Sprintf("%d unknown schema reference(s)", len(issues)), details)
		return NewExitError(ExitFailure, "validation failed")
	}

	return formatter.Success("expression references registered schema only")
}
