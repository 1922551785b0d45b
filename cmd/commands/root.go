package commands

import (
	"Food-Inventory-Backend/internal/utils"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "food-inventory",
	Short: "Food inventory backend",
	Long:  "food-inventory tracks pantry items per user and labels each one good, expiring soon or expired.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.LoadConfigFile(configPath)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to the YAML config file")
}
