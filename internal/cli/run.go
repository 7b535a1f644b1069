package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/formtest/internal/report"
	"github.com/roach88/formtest/internal/tester"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Forms    string
	Form     string
	Which    string
	Database string
}

// RunResult is the JSON payload of the run command.
type RunResult struct {
	Datasets string         `json:"datasets"`
	Form     string         `json:"form"`
	Passed   int            `json:"passed"`
	Failed   int            `json:"failed"`
	Total    int            `json:"total"`
	Events   []report.Event `json:"events"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <datasets>",
		Short: "Run a dataset document against a form catalog",
		Long: `Bind every dataset of a document to its form and check the outcome.

Datasets under "pass" must validate, datasets under "fail" must not.
Text output is a TAP stream; JSON output carries every recorded event.

Exit codes:
  0 - All assertions passed
  1 - One or more assertions failed
  2 - Command error (missing files, invalid catalog, no form, etc.)

Examples:
  formtest run contact.yaml --forms forms.cue
  formtest run contact.yaml --forms forms.cue --form ContactForm --which fail
  formtest run contact.yaml --forms forms.cue --db ./submissions.db
  formtest run contact.yaml --forms forms.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDatasets(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Forms, "forms", "", "path to the CUE form catalog (required)")
	cmd.Flags().StringVar(&opts.Form, "form", "", "form class under test (overrides formClass)")
	cmd.Flags().StringVar(&opts.Which, "which", "both", "dataset collections to run (pass|fail|both)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database saved forms are written to")
	_ = cmd.MarkFlagRequired("forms")

	return cmd
}

func runDatasets(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	which, err := tester.ParseWhich(opts.Which)
	if err != nil {
		return commandError(formatter, ErrCodeInvalidOptions, err)
	}

	setup, err := LoadSetup(opts.Forms, opts.Database)
	if err != nil {
		return commandError(formatter, errorCode(err), err)
	}
	defer func() {
		if closeErr := setup.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()
	formatter.VerboseLog("Loaded %d form definition(s) from %s", len(setup.Catalog.Definitions()), opts.Forms)

	t, err := tester.Create(path, tester.WithRegistry(setup.Registry), tester.WithLogger(logger))
	if err != nil {
		return commandError(formatter, errorCode(err), err)
	}
	if opts.Form != "" {
		if err := setup.SelectForm(t, opts.Form); err != nil {
			return commandError(formatter, errorCode(err), err)
		}
	}
	formatter.VerboseLog("Running %s datasets: %d pass, %d fail", which, len(t.ValidData()), len(t.InvalidData()))

	if opts.Format == "json" {
		return runJSON(formatter, t, which, path)
	}
	return runTAP(formatter, t, which)
}

func runTAP(formatter *OutputFormatter, t *tester.Tester, which tester.Which) error {
	tap := report.NewTAP(formatter.Writer)
	if err := t.Run(tap, which); err != nil {
		fmt.Fprintf(formatter.Writer, "Bail out! %v\n", err)
		return WrapExitError(ExitCommandError, "run aborted", err)
	}
	if err := tap.Close(); err != nil {
		return err
	}

	if tap.Failed() > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d assertions failed", tap.Failed(), tap.Count()))
	}
	return nil
}

func runJSON(formatter *OutputFormatter, t *tester.Tester, which tester.Which, path string) error {
	rec := report.NewRecorder()
	if err := t.Run(rec, which); err != nil {
		return commandError(formatter, errorCode(err), err)
	}

	result := RunResult{
		Datasets: path,
		Form:     t.Configuration().FormClass,
		Passed:   rec.Passed(),
		Failed:   rec.Failed(),
		Total:    rec.Total(),
		Events:   rec.Events,
	}

	if result.Failed > 0 {
		msg := fmt.Sprintf("%d of %d assertions failed", result.Failed, result.Total)
		if err := formatter.Failure(ErrCodeAssertions, msg, result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return formatter.Success(result)
}

// commandError reports err through the formatter and returns it as a
// command error (exit code 2).
func commandError(formatter *OutputFormatter, code string, err error) error {
	if formatter.Format == "json" {
		_ = formatter.Error(code, err.Error(), nil)
	}
	return WrapExitError(ExitCommandError, "command failed", err)
}
