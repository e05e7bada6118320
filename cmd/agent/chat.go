package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"wareongo/internal/agent"
	"wareongo/internal/bootstrap"
	"wareongo/internal/config"
	"wareongo/internal/repository"
	"wareongo/internal/service"
)

// conversation is the part of the orchestrator the REPL needs
type conversation interface {
	Turn(ctx context.Context, state agent.RequirementState, userMessage *string) (agent.TurnResult, error)
}

func newChatCmd() *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start or resume a conversation on the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			// keep the terminal for the conversation
			logger := config.NewLogger(cfg.Logging, cmd.ErrOrStderr())
			if offline {
				cfg.OpenAI.Enabled = false
			}

			repo, err := repository.NewPostgresRepository(
				cfg.GetPostgreSQLDSN(),
				cfg.PostgreSQL.MaxConnections,
				cfg.PostgreSQL.MaxIdleConnections,
			)
			if err != nil {
				return err
			}
			defer repo.Close()

			searcher := service.NewSearchService(repo, cfg.Search.PageSize, cfg.PostgreSQL.SearchLogEnabled, logger)
			o := bootstrap.NewOrchestrator(cfg, bootstrap.AIClient(cfg, logger), searcher, nil, logger)

			state, err := loadState(stateFile)
			if err != nil {
				return err
			}
			if state.ConversationComplete {
				state = agent.NewState()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runChat(ctx, o, state, cmd.InOrStdin(), cmd.OutOrStdout(), func(s agent.RequirementState) error {
				return saveState(stateFile, s)
			}, logger)
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "use rule-based extraction and template questions only")
	return cmd
}

// runChat alternates between the user and the agent until the conversation
// completes or input ends. The state is saved after every turn.
func runChat(
	ctx context.Context,
	o conversation,
	state agent.RequirementState,
	in io.Reader,
	out io.Writer,
	save func(agent.RequirementState) error,
	logger *slog.Logger,
) error {
	step := func(msg *string) (bool, error) {
		res, err := o.Turn(ctx, state, msg)
		if err != nil {
			return false, fmt.Errorf("turn failed: %w", err)
		}
		state = res.State
		fmt.Fprintf(out, "\n%s\n", res.Message)
		if err := save(state); err != nil {
			logger.Warn("Failed to save state", "error", err)
		}
		return res.Complete, nil
	}

	if len(state.Transcript) == 0 {
		// a fresh state opens with the greeting
		if done, err := step(nil); done || err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, "Resuming your conversation. Type 'exit' to stop.")
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\n> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if done, err := step(&line); done || err != nil {
			return err
		}
	}
}
