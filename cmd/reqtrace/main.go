// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the reqtrace CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the reqtrace CLI.
var rootCmd = &cobra.Command{
	Use:   "reqtrace",
	Short: "Requirement extraction from decoded specification documents",
	Long: `reqtrace reconstructs readable text from positioned page fragments,
segments it into sentences, and extracts labeled requirement statements
with confidence scores.

Each stage of the workflow is a subcommand: extract runs the engine over
decoded document files, store manages a local requirement database, and
export converts results for downstream tools.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./reqtrace.yaml or ~/.config/reqtrace/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("reqtrace")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "reqtrace"))
		}
	}

	viper.SetEnvPrefix("REQTRACE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
