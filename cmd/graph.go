package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/encodeous/ripsim/core"
	"github.com/encodeous/ripsim/state"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:     "graph",
	Aliases: []string{"g"},
	Short:   "Render a scenario topology as Graphviz DOT",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.ReadFile(scenarioPath)
		if err != nil {
			return err
		}
		cfg, err := state.LoadSimCfg(file)
		if err != nil {
			return err
		}
		env, _, err := core.NewEnv(*cfg, slog.LevelError)
		if err != nil {
			return err
		}
		defer env.Cancel(nil)
		net, err := core.BuildNetwork(env)
		if err != nil {
			return err
		}
		fmt.Print(core.ExportDot(net))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
