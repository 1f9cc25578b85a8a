package cli

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/arborq/arborq/internal/querycomp"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Name string // filter name inside a CUE definition file
}

// traceAttempt is the JSON shape of one recorded strategy attempt.
type traceAttempt struct {
	Term     int    `json:"term"`
	Strategy string `json:"strategy"`
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <expression-file>",
		Short: "Compile an expression and show each classification attempt",
		Long: `Compile a filter expression with strategy tracing enabled.

For each root term the compiler tries the attribute shape, then the
taxonomy shape, then the plain comparison shape; trace shows every
attempt in order with the rejection reason for the shapes that did not
fit. Tracing does not change the compiled output.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "filter name inside a CUE definition file")

	return cmd
}

func runTrace(opts *TraceOptions, path string, cmd *cobra.Command) error {
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

	var attempts []traceAttempt
	comp := querycomp.New(querycomp.WithTrace(func(ev querycomp.TraceEvent) {
		a := traceAttempt{Term: ev.Term, Strategy: ev.Strategy, Accepted: ev.Err == nil}
		if ev.Err != nil {
			a.Reason = ev.Err.Error()
		}
		attempts = append(attempts, a)
	}))

	runToken := uuid.NewString()

	out, compileErr := comp.Compile(root)

	if opts.Format == "json" {
		resp := CLIResponse{Status: "ok", RunToken: runToken}
		data := map[string]any{"attempts": attempts}
		if compileErr != nil {
			resp.Status = "error"
			resp.Error = &CLIError{Code: ErrCodeCompile, Message: compileErr.Error()}
		} else {
			rendered, err := json.Marshal(out)
			if err != nil {
				formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return WrapExitError(ExitCommandError, "render failed", err)
			}
			data["result"] = json.RawMessage(rendered)
		}
		resp.Data = data
		if err := json.NewEncoder(formatter.Writer).Encode(resp); err != nil {
			return WrapExitError(ExitCommandError, "write failed", err)
		}
		if compileErr != nil {
			return NewExitError(ExitFailure, "compile failed")
		}
		return nil
	}

	fmt.Fprintf(formatter.Writer, "run %s\n", runToken)
	for _, a := range attempts {
		if a.Accepted {
			fmt.Fprintf(formatter.Writer, "term %d: %s accepted\n", a.Term, a.Strategy)
			continue
		}
		fmt.Fprintf(formatter.Writer, "term %d: %s rejected: %s\n", a.Term, a.Strategy, a.Reason)
	}
	if compileErr != nil {
		formatter.Error(ErrCodeCompile, compileErr.Error(), nil)
		return WrapExitError(ExitFailure, "compile failed", compileErr)
	}

	rendered, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "render failed", err)
	}
	fmt.Fprintln(formatter.Writer, string(rendered))
	return nil
}
