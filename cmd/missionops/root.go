package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "missionops",
	Short: "Mission execution and safety supervision for autonomous drones",
	Long:  "missionops flies parametric reference trajectories under a safety watchdog and records the resulting telemetry.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(flyCmd)
}
