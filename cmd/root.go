package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var scenarioPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ripsim",
	Short: "RIP Routing Simulator CLI",
	Long: `ripsim simulates the Routing Information Protocol (RFC 1058) over an abstract
network topology advanced in discrete ticks, one simulated second per tick.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&scenarioPath, "scenario", "s", "scenario.yaml", "scenario config")
}
