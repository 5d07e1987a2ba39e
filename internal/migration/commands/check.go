package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"rentfolio/internal/models"
	"rentfolio/internal/schema"
)

// ErrSchemaDrift is returned by check when the database differs from the models.
var ErrSchemaDrift = errors.New("database schema differs from models")

func CheckCmd(open DBOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compare the database schema with the models",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}

			tables, err := schema.Describe(models.All()...)
			if err != nil {
				return err
			}
			diff, err := schema.Compare(cmd.Context(), db, tables)
			if err != nil {
				return err
			}

			schema.WriteDiff(cmd.OutOrStdout(), diff)
			if !diff.IsEmpty() {
				return ErrSchemaDrift
			}
			return nil
		},
	}
}
