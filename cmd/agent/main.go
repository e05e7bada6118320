// Command agent runs the warehouse requirement conversation in a terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var stateFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "agent",
		Short:        "Find warehouse space through a guided conversation",
		Version:      fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit),
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&stateFile, "state-file", "", "JSON file the conversation state is read from and saved to")

	root.AddCommand(newChatCmd(), newStateCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
