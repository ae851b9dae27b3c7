package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstudio/pkg/model"
	"github.com/goliatone/go-formstudio/pkg/schemafile"
	"github.com/goliatone/go-formstudio/pkg/validation"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the supported field types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tLABEL\tPAYLOAD")
			for _, info := range model.Types() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Type, info.Label, info.Aux)
			}
			return tw.Flush()
		},
	}
}

func newSchemaCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "schema <file>",
		Short: "Print the JSON Schema submissions of a form are validated against",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := schemafile.Load(args[0], storeLogger(a))
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(validation.SchemaFor(store.Fields()), "", "  ")
			if err != nil {
				return fmt.Errorf("encode schema: %w", err)
			}
			return writeOutput(cmd, output, append(data, '\n'))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	return cmd
}
