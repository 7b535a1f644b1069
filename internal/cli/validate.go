package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/formtest/internal/dataset"
	"github.com/roach88/formtest/internal/tester"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Forms string
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool     `json:"valid"`
	FormClass string   `json:"form_class,omitempty"`
	Pass      []string `json:"pass"`
	Fail      []string `json:"fail"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <datasets>",
		Short: "Validate a dataset document without running it",
		Long: `Load a dataset document and check its structure without binding anything.

With --forms, the configured form class must also resolve against the
catalog and the form must construct with the configured options.

Example:
  formtest validate contact.yaml
  formtest validate contact.yaml --forms forms.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Forms, "forms", "", "path to the CUE form catalog")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	doc, err := dataset.LoadFile(path)
	if err != nil {
		return outputValidateError(formatter, errorCode(err), err)
	}
	formatter.VerboseLog("Loaded %s: %d pass, %d fail", path, len(doc.Pass), len(doc.Fail))

	result := ValidationResult{
		Valid:     true,
		FormClass: doc.Config.FormClass,
		Pass:      names(doc.Pass),
		Fail:      names(doc.Fail),
	}

	if opts.Forms != "" {
		setup, err := LoadSetup(opts.Forms, "")
		if err != nil {
			return outputValidateError(formatter, errorCode(err), err)
		}
		t := tester.New(tester.WithRegistry(setup.Registry))
		t.LoadDocument(doc)
		if _, err := t.Form(nil, nil); err != nil {
			return outputValidateError(formatter, errorCode(err), err)
		}
		formatter.VerboseLog("Form %s resolves against %s", doc.Config.FormClass, opts.Forms)
	}

	return outputValidateSuccess(formatter, path, result)
}

func names(sets []dataset.Dataset) []string {
	out := make([]string, 0, len(sets))
	for _, ds := range sets {
		out = append(out, ds.Name)
	}
	return out
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, path string, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ %s: %d pass, %d fail datasets\n", path, len(result.Pass), len(result.Fail))
	return nil
}

// outputValidateError outputs a single validation error. Validation errors
// are command-level errors (exit code 2).
func outputValidateError(formatter *OutputFormatter, code string, err error) error {
	_ = formatter.Error(code, err.Error(), nil)
	return WrapExitError(ExitCommandError, "validation failed", err)
}
