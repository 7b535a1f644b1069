package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/formtest/internal/schemaform"
)

// FormsResult is the JSON payload of the forms command.
type FormsResult struct {
	Catalog string                  `json:"catalog"`
	Forms   []schemaform.Definition `json:"forms"`
}

// NewFormsCommand creates the forms command.
func NewFormsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forms <catalog.cue>",
		Short: "List the form definitions of a catalog",
		Long: `Load a CUE form catalog and list its definitions.

Loading checks every validation rule, every embedded form reference and
rejects embedding cycles, so a clean listing means the catalog is usable.

Example:
  formtest forms ./forms.cue
  formtest forms ./forms.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listForms(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func listForms(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	setup, err := LoadSetup(path, "")
	if err != nil {
		return commandError(formatter, errorCode(err), err)
	}

	defs := setup.Catalog.Definitions()
	if opts.Format == "json" {
		return formatter.Success(FormsResult{Catalog: path, Forms: defs})
	}

	writeDefinitions(formatter.Writer, defs)
	return nil
}

func writeDefinitions(w io.Writer, defs []schemaform.Definition) {
	for _, def := range defs {
		if def.CSRF {
			fmt.Fprintf(w, "%s (csrf)\n", def.Name)
		} else {
			fmt.Fprintln(w, def.Name)
		}
		for _, f := range def.Fields {
			if f.Rules == "" {
				fmt.Fprintf(w, "  %s\n", f.Name)
				continue
			}
			fmt.Fprintf(w, "  %s: %s\n", f.Name, f.Rules)
		}
		for _, e := range def.Embeds {
			fmt.Fprintf(w, "  %s → %s\n", e.Name, e.Form)
		}
	}
}
