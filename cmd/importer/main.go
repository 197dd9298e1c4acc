package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"catalogo/internal/config"
	"catalogo/internal/repository"
	"catalogo/internal/service"
	"catalogo/internal/source"
)

var log = logrus.New()

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "importer",
		Short:        "Imports catalog spreadsheets and recomputes derived statistics",
		SilenceUsage: true,
	}
	root.AddCommand(importCmd(), recalcCmd())
	return root
}

func importCmd() *cobra.Command {
	var region string
	var fuzzy bool

	cmd := &cobra.Command{
		Use:   "import <development|unitModel|developer> <file>",
		Short: "Import one spreadsheet of the given entity kind",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := service.ParseKind(args[0])
			if err != nil {
				return err
			}

			cfg, store, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := source.ReadRows(args[1])
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{"file": args[1], "rows": len(rows)}).Info("input loaded")

			audit, err := auditLogger(cfg.Import.AuditLogPath)
			if err != nil {
				return err
			}

			imp := service.NewImporter(store, log, audit,
				cfg.Import.BatchSize, cfg.Import.FuzzyThreshold)
			result, err := imp.Run(cmd.Context(), kind, rows, service.Options{
				Region: region,
				Fuzzy:  fuzzy,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\nImport finished: %d imported, %d failed\n", result.Imported, result.Failed)
			for _, re := range result.Errors {
				fmt.Printf("  row %d: %s\n", re.Row, re.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&region, "region", "", "restrict duplicate detection to developers present in this city")
	cmd.Flags().BoolVar(&fuzzy, "fuzzy", true, "merge developers whose names fuzzy-match existing ones")
	return cmd
}

func recalcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recalc",
		Short: "Recompute stats, highlights and rollups for the whole catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			agg := service.NewAggregator(store, log)
			return agg.RecalcAll(cmd.Context())
		},
	}
}

// setup loads configuration, configures logging, connects to the store and
// ensures the schema. Storage bootstrap failure is fatal.
func setup(ctx context.Context) (*config.Config, *repository.PostgresStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		log.SetLevel(level)
	}
	if cfg.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	store, err := repository.NewPostgresStore(cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections, cfg.PostgreSQL.MaxIdleConnections)
	if err != nil {
		return nil, nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}
	return cfg, store, nil
}

// auditLogger appends duplicate-merge records to a JSON log separate from
// the main output.
func auditLogger(path string) (*logrus.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	audit := logrus.New()
	audit.SetOutput(f)
	audit.SetFormatter(&logrus.JSONFormatter{})
	return audit, nil
}
