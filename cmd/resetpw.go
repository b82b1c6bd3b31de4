package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eco-locaux/prospect-cli/internal/auth"
)

var resetpwCmd = &cobra.Command{
	Use:   "resetpw",
	Short: "Reset every active salesperson's password",
	Long: `Set a temporary password for every active salesperson, derived from
their first name and stored bcrypt-hashed. Used when onboarding the
team at the start of a campaign. Requires --yes to run.`,
	RunE: runResetPasswords,
}

func init() {
	resetpwCmd.Flags().Bool("yes", false, "confirm the reset")
	rootCmd.AddCommand(resetpwCmd)
}

func runResetPasswords(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		return eris.New("resetpw: this overwrites every salesperson password; re-run with --yes")
	}

	s, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	results, err := auth.ResetPasswords(ctx, s)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No active salespeople found.")
		return nil
	}

	var failed int
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EMAIL\tRESULT")
	for _, r := range results {
		if r.Success {
			fmt.Fprintf(tw, "%s\tok\n", r.Email)
		} else {
			failed++
			fmt.Fprintf(tw, "%s\tFAILED: %s\n", r.Email, r.Error)
		}
	}
	if err := tw.Flush(); err != nil {
		return eris.Wrap(err, "resetpw: flush")
	}

	zap.L().Info("password reset complete",
		zap.Int("reset", len(results)-failed),
		zap.Int("failed", failed),
	)
	if failed > 0 {
		return eris.Errorf("resetpw: %d of %d resets failed", failed, len(results))
	}
	return nil
}
