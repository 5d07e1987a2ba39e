package migration

import (
	"gorm.io/gorm"

	"rentfolio/internal/models"
)

const leasePropertyStatusIndex = "idx_leases_property_status"

var valuationYieldFields = []string{"GrossYield", "NetYield", "CashOnCash", "TargetYield"}

func init() {
	RegisterMigration(&Migration{
		Version: "20250301090000",
		Name:    "create_portfolio_tables",
		Up: func(db *gorm.DB) error {
			return db.AutoMigrate(models.All()...)
		},
		Down: func(db *gorm.DB) error {
			all := models.All()
			for i := len(all) - 1; i >= 0; i-- {
				if err := db.Migrator().DropTable(all[i]); err != nil {
					return err
				}
			}
			return nil
		},
	})

	// Active-lease lookups filter on both columns.
	RegisterMigration(&Migration{
		Version: "20250315090000",
		Name:    "add_lease_property_status_index",
		Up: func(db *gorm.DB) error {
			if db.Migrator().HasIndex(&models.Lease{}, leasePropertyStatusIndex) {
				return nil
			}
			return db.Exec("CREATE INDEX " + leasePropertyStatusIndex + " ON leases (property_id, status)").Error
		},
		Down: func(db *gorm.DB) error {
			return db.Migrator().DropIndex(&models.Lease{}, leasePropertyStatusIndex)
		},
	})

	// Yields on a near-zero investment outgrow the original percentage
	// columns. Down keeps the wider types.
	RegisterMigration(&Migration{
		Version: "20250401090000",
		Name:    "widen_valuation_yields",
		Up: func(db *gorm.DB) error {
			for _, field := range valuationYieldFields {
				if err := db.Migrator().AlterColumn(&models.PropertyValuation{}, field); err != nil {
					return err
				}
			}
			return nil
		},
		Down: func(db *gorm.DB) error {
			return nil
		},
	})
}
