package cmd

import (
	"log/slog"
	"os"

	"github.com/encodeous/ripsim/core"
	"github.com/encodeous/ripsim/state"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation scenario",
	Long: `Loads the scenario config and starts the simulation with an interactive
command shell. With --every, the simulation also advances on a wall clock.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.ReadFile(scenarioPath)
		if err != nil {
			return err
		}
		cfg, err := state.LoadSimCfg(file)
		if err != nil {
			return err
		}

		level := slog.LevelInfo
		if ok, _ := cmd.Flags().GetBool("verbose"); ok {
			level = slog.LevelDebug
		}
		every, _ := cmd.Flags().GetDuration("every")

		return core.Run(cfg, level, core.RunOpts{
			Interactive: true,
			TickEvery:   every,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("verbose", "v", false, "Verbose output")
	runCmd.Flags().Duration("every", 0, "Advance one tick per wall-clock period, e.g. 1s")
	runCmd.Flags().BoolVarP(&state.DBG_log_router, "lroute", "r", false, "Write router updates to console")
	runCmd.Flags().BoolVarP(&state.DBG_log_route_table, "ltable", "t", false, "Outputs route tables to the console")
}
