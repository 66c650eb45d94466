package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/satprep/internal/report"
	"github.com/abhisek/satprep/internal/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Start, end or inspect a study session",
}

var sessionStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Open a study session",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		s, err := env.engine.StartSession(cmd.Context(), env.learner)
		out := cmd.OutOrStdout()
		switch {
		case errors.Is(err, session.ErrSessionOpen):
			fmt.Fprintln(out, "A session is already open.")
		case err != nil:
			return err
		default:
			fmt.Fprintln(out, "Session started.")
		}
		fmt.Fprintln(out, report.Session(s, time.Now()))
		return nil
	},
}

var sessionEndCmd = &cobra.Command{
	Use:   "end [session-id]",
	Short: "End the open study session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		var id uuid.UUID
		if len(args) == 1 {
			if id, err = uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid session ID %q: %w", args[0], err)
			}
		} else {
			cur, ok, err := env.engine.CurrentSession(ctx, env.learner)
			if err != nil {
				return err
			}
			if !ok {
				return session.ErrNoOpenSession
			}
			id = cur.ID
		}

		s, err := env.engine.EndSession(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.Session(s, time.Now()))
		return nil
	},
}

var sessionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the open study session",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		s, ok, err := env.engine.CurrentSession(cmd.Context(), env.learner)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "No open session.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.Session(s, time.Now()))
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionEndCmd)
	sessionCmd.AddCommand(sessionStatusCmd)
}
