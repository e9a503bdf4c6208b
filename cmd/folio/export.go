package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakif/folio/internal/export"
	"github.com/sakif/folio/internal/render"
)

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every template page as static HTML",
		Long: `export renders the index and every template, from its saved record or
its samples, into the output directory. The directory is emptied first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, closeDB, err := a.openTemplates()
			if err != nil {
				return err
			}
			defer closeDB()

			engine, err := render.New()
			if err != nil {
				return err
			}

			res, err := export.New(templates, engine, a.logger).Export(cmd.Context(), a.cfg.ExportDir)
			if err != nil {
				return err
			}
			for _, f := range res.Files {
				fmt.Fprintln(a.stdout, f)
			}
			return nil
		},
	}

	cmd.Flags().StringP("out", "o", "public", "output directory")
	a.v.BindPFlag("export_dir", cmd.Flags().Lookup("out"))
	return cmd
}
