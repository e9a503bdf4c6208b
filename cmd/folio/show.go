package main

import (
	"encoding/json"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sakif/folio/internal/model"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "show <kind>",
		Short:     "Print the content record a template renders, as JSON",
		ValidArgs: kindNames(),
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseKind(args[0])
			if err != nil {
				return err
			}

			templates, closeDB, err := a.openTemplates()
			if err != nil {
				return err
			}
			defer closeDB()

			content, source, err := templates.Load(cmd.Context(), kind)
			if err != nil {
				return err
			}
			a.logger.Debug("record loaded",
				slog.String("kind", string(kind)),
				slog.String("source", string(source)),
			)

			enc := json.NewEncoder(a.stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(content)
		},
	}
}

func kindNames() []string {
	kinds := model.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}
