package main

import (
	"commandcenter/source/database"
	"commandcenter/source/utils"
	"database/sql"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the SQL tables of the mysql and sqlite gateways",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openSQLDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if err := database.Migrate(ctx, db); err != nil {
				return err
			}
			log.Info("migrations applied")

			if !seed {
				return nil
			}

			var count int
			if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pipeline_items").Scan(&count); err != nil {
				return fmt.Errorf("count pipeline items: %w", err)
			}
			if count > 0 {
				log.WithField("items", count).Info("pipeline already has data, skipping seed")
				return nil
			}

			items := database.DemoPipeline(time.Now())
			if err := database.Seed(ctx, db, items); err != nil {
				return err
			}
			log.WithField("items", len(items)).Info("demo pipeline seeded")
			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "load the demo pipeline into an empty database")
	return cmd
}

func openSQLDatabase() (*sql.DB, error) {
	switch driver := utils.GatewayDriver(); driver {
	case utils.GATEWAY_MYSQL:
		return database.OpenMySQL(os.Getenv(utils.MYSQL_URI))
	case utils.GATEWAY_SQLITE:
		return database.OpenSQLite(os.Getenv(utils.SQLITE_PATH))
	default:
		return nil, fmt.Errorf("migrate needs the mysql or sqlite gateway, %s is %q", utils.GATEWAY_DRIVER, driver)
	}
}
