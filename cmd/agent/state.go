package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"wareongo/internal/agent"
)

// loadState reads a saved conversation; a missing file is a new conversation
func loadState(path string) (agent.RequirementState, error) {
	if path == "" {
		return agent.NewState(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return agent.NewState(), nil
	}
	if err != nil {
		return agent.RequirementState{}, fmt.Errorf("read state file: %w", err)
	}
	var state agent.RequirementState
	if err := sonic.Unmarshal(data, &state); err != nil {
		return agent.RequirementState{}, fmt.Errorf("decode state file %s: %w", path, err)
	}
	return state, nil
}

func saveState(path string, state agent.RequirementState) error {
	if path == "" {
		return nil
	}
	data, err := sonic.ConfigStd.MarshalIndent(&state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

func newStateCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show the requirements saved in --state-file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if stateFile == "" {
				return errors.New("--state-file is required")
			}
			state, err := loadState(stateFile)
			if err != nil {
				return err
			}
			return printState(cmd.OutOrStdout(), state, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw state")
	return cmd
}

func printState(w io.Writer, state agent.RequirementState, asJSON bool) error {
	if asJSON {
		data, err := sonic.ConfigStd.MarshalIndent(&state, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	fmt.Fprintf(w, "Stage: %s\n", state.Stage)
	fmt.Fprintf(w, "Messages: %d\n", len(state.Transcript))
	fmt.Fprintf(w, "Confirmed: %t, page %d\n", state.RequirementsConfirmed, state.CurrentPage)
	if state.ConversationComplete {
		fmt.Fprintln(w, "Conversation complete")
	}
	fmt.Fprintf(w, "\n%s\n", state.Summary())
	return nil
}
