package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	authCmd "cleancity/internal/cli/auth"
	binsCmd "cleancity/internal/cli/bins"
	configCmd "cleancity/internal/cli/config"
	statsCmd "cleancity/internal/cli/stats"
)

var rootCmd = &cobra.Command{
	Use:   "cleancity",
	Short: "CleanCity command-line client",
	Long:  "Interact with a CleanCity server: accounts, bins, statistics and leaderboards",
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("host", "", "Server host (overrides config)")
	rootCmd.PersistentFlags().Int("port", 0, "Server port (overrides config)")
	viper.BindPFlag("server.host", rootCmd.PersistentFlags().Lookup("host"))
	viper.BindPFlag("server.port", rootCmd.PersistentFlags().Lookup("port"))

	rootCmd.AddCommand(authCmd.AuthCmd)
	rootCmd.AddCommand(binsCmd.BinsCmd)
	rootCmd.AddCommand(statsCmd.StatsCmd)
	rootCmd.AddCommand(configCmd.ConfigCmd)
}

// initConfig reads ~/.cleancity/config.yaml when present.
func initConfig() {
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)

	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(filepath.Join(home, ".cleancity"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.ReadInConfig()
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
