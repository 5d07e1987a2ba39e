package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"rentfolio/internal/config"
	"rentfolio/internal/httpapi"
	"rentfolio/internal/leasing"
	"rentfolio/internal/logging"
	"rentfolio/internal/migration/commands"
	"rentfolio/internal/models"
	"rentfolio/internal/portfolio"
	"rentfolio/internal/rent"
	"rentfolio/internal/schema"
	"rentfolio/internal/store"
	"rentfolio/internal/valuation"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "rentfolio",
		Short:         "Rental portfolio service and operations tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		commands.MigrateCmd(openDB),
		schemaCmd(),
		rentCmd(),
		valuationCmd(),
		portfolioCmd(),
		seedCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is what every database-backed command needs.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	store *store.Store
}

func setup() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	return &app{cfg: cfg, log: log, store: st}, nil
}

func (a *app) close() {
	_ = a.store.Close()
	_ = a.log.Sync()
}

// now is the wall clock in the configured zone. Year windows and due dates
// are computed from it.
func (a *app) now() time.Time {
	return time.Now().In(a.cfg.Location)
}

func (a *app) services() httpapi.Services {
	return httpapi.Services{
		Generator:  rent.NewGenerator(a.store, a.log, a.cfg.Location),
		Overdue:    rent.NewOverdueDetector(a.store, a.log),
		Payments:   rent.NewPayments(a.store, a.log),
		Valuations: valuation.NewCalculator(a.store, a.log),
		Portfolio:  portfolio.NewAggregator(a.store, a.log, a.cfg.Location),
		Leasing:    leasing.NewService(a.store, a.log),
	}
}

func openDB() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}
	return st.DB(), nil
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the tables derived from the models",
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := schema.Describe(models.All()...)
			if err != nil {
				return err
			}
			return schema.Write(cmd.OutOrStdout(), tables)
		},
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
