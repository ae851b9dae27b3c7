package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstudio/pkg/model"
	"github.com/goliatone/go-formstudio/pkg/render"
	"github.com/goliatone/go-formstudio/pkg/renderers/tui"
	"github.com/goliatone/go-formstudio/pkg/schema"
	"github.com/goliatone/go-formstudio/pkg/schemafile"
	"github.com/goliatone/go-formstudio/pkg/validation"
)

func storeLogger(a *app) schema.StoreOption {
	return schema.WithStoreLogger(a.logger)
}

func newFillCmd(a *app) *cobra.Command {
	var (
		format   string
		output   string
		validate bool
	)

	cmd := &cobra.Command{
		Use:   "fill <file>",
		Short: "Fill in a form in the terminal and print the submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, ok := tui.ParseOutputFormat(format)
			if !ok {
				return fmt.Errorf("unknown output format %q (json, form, pretty)", format)
			}
			store, err := schemafile.Load(args[0], storeLogger(a))
			if err != nil {
				return err
			}

			options := []tui.Option{
				tui.WithOutputFormat(outputFormat),
				tui.WithLogger(a.logger),
				tui.WithTheme(tui.Theme{InfoPrefix: "» ", ErrorPrefix: "✗ "}),
			}
			if validate {
				options = append(options, tui.WithValidator(validation.New()))
			}

			out, err := tui.New(options...).Render(cmd.Context(), render.FormFromStore(store), render.RenderOptions{})
			if err != nil {
				if errors.Is(err, tui.ErrAborted) {
					a.logger.Info("fill aborted")
					return nil
				}
				return err
			}
			if len(out) == 0 || out[len(out)-1] != '\n' {
				out = append(out, '\n')
			}
			return writeOutput(cmd, output, out)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(tui.OutputFormatJSON), "Submission format (json, form, pretty)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	cmd.Flags().BoolVar(&validate, "validate", true, "Validate answers before submitting")
	return cmd
}

func newDesignCmd(a *app) *cobra.Command {
	var (
		title  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "design <file>",
		Short: "Edit a form schema interactively and save it",
		Long: `design opens the schema document at <file>, or starts an empty form when the
file does not exist yet, and runs the terminal designer. The result is saved
back to <file> (or --output) in the format implied by the extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			store, err := loadOrCreate(a, path, title)
			if err != nil {
				return err
			}

			unsubscribe := store.Subscribe(func(event schema.Event) {
				a.logger.Debug("schema changed", "event", event.Kind, "field", event.Field.ID, "index", event.Index)
			})
			defer unsubscribe()

			editor := schema.NewEditor(store, schema.WithLogger(a.logger))
			if err := tui.New(tui.WithLogger(a.logger)).Design(cmd.Context(), editor); err != nil {
				if errors.Is(err, tui.ErrAborted) {
					a.logger.Info("design aborted, nothing saved")
					return nil
				}
				return err
			}

			if output == "" {
				output = path
			}
			if err := schemafile.Save(output, store); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d fields to %s\n", store.Len(), output)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "Untitled form", "Title for a new form")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Save to this file instead of <file>")
	return cmd
}

func loadOrCreate(a *app, path, title string) (*schema.Store, error) {
	store, err := schemafile.Load(path, storeLogger(a))
	if err == nil {
		return store, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	a.logger.Info("starting a new form", "path", path)
	return schema.NewStoreFrom(title, []model.Field{}, nil, storeLogger(a))
}
