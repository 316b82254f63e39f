package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/pantrykeeper/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pantrykeeper",
		Short: "PantryKeeper inventory server",
		Long:  `PantryKeeper tracks perishable food items in a durable JSON store and exposes them over a REST API and a tool-call protocol for assistant integrations.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewToolsCommand())
	rootCmd.AddCommand(commands.NewTokenCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
