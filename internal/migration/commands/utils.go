package commands

import (
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"rentfolio/internal/migration"
)

// DBOpener opens the database the commands run against.
type DBOpener func() (*gorm.DB, error)

// MigrateCmd groups the migration subcommands.
func MigrateCmd(open DBOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}
	cmd.AddCommand(
		UpCmd(open),
		DownCmd(open),
		StatusCmd(open),
		HistoryCmd(open),
		CheckCmd(open),
	)
	return cmd
}

func getMigrator(open DBOpener) (*migration.Migrator, error) {
	db, err := open()
	if err != nil {
		return nil, err
	}
	return migration.NewMigrator(db), nil
}
