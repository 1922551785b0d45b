package commands

import (
	"Food-Inventory-Backend/cmd/config"
	migration "Food-Inventory-Backend/cmd/database/migrate"
	"Food-Inventory-Backend/internal/utils"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"
)

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := config.ConnectDB()
		if err != nil {
			return err
		}

		if autoMigrate {
			if err := migration.Migrate(db); err != nil {
				return err
			}
		}

		app, err := config.NewApp(db)
		if err != nil {
			return err
		}

		addr := fmt.Sprintf(":%s", utils.GetConfig("APP_PORT"))
		log.Infof("listening on %s", addr)
		return app.Listen(addr)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "Run database migrations before serving")
	rootCmd.AddCommand(serveCmd)
}
