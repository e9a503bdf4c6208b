package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sakif/folio/internal/config"
	"github.com/sakif/folio/internal/defaults"
	sqliteRepo "github.com/sakif/folio/internal/repository/sqlite"
	"github.com/sakif/folio/internal/service"
)

// app is the state shared by every subcommand. It is filled in by the root
// command's PersistentPreRunE before any subcommand runs.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *slog.Logger

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: config.New(), stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "folio",
		Short: "Portfolio and marketing templates with a built-in content editor",
		Long: `folio renders a small set of page templates (portfolio, developer, saas),
each from one content record. Records are edited in the browser and saved
to a local SQLite file; until then each template shows sample content.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./folio.yaml)")
	root.PersistentFlags().String("db", "data/folio.db", "SQLite database path")
	root.PersistentFlags().String("defaults-dir", "", "directory of <kind>.yaml files overriding the built-in samples")
	a.v.BindPFlag("db_path", root.PersistentFlags().Lookup("db"))
	a.v.BindPFlag("defaults_dir", root.PersistentFlags().Lookup("defaults-dir"))

	root.AddCommand(
		newServeCmd(a),
		newExportCmd(a),
		newShowCmd(a),
	)
	return root
}

func (a *app) initialize() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cfg.Log.NewLogger(a.stderr)

	if cfg.File != "" {
		a.logger.Debug("using config file", slog.String("file", cfg.File))
	}
	return nil
}

// openTemplates gives the commands that do not serve HTTP direct access to
// the stored records. The returned func closes the database.
func (a *app) openTemplates() (*service.TemplateService, func() error, error) {
	if a.cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(a.cfg.DBPath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sqliteRepo.New(a.cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	samples, err := defaults.New(a.cfg.DefaultsDir, a.logger)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("loading samples: %w", err)
	}

	return service.NewTemplateService(db, samples, a.logger), db.Close, nil
}
