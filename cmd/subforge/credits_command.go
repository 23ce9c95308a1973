package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newCreditsCommand(ctx *commandContext) *cobra.Command {
	var account string

	creditsCmd := &cobra.Command{
		Use:   "credits",
		Short: "Show the credit balance for an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := resolveAccount(ctx, account)
			if err != nil {
				return err
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			balance, err := st.Credits(cmd.Context(), accountID)
			if err != nil {
				return fmt.Errorf("read balance: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account %s: %d credits\n", accountID, balance)
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <amount>",
		Short: "Set the credit balance for an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || amount < 0 {
				return fmt.Errorf("amount must be a non-negative integer, got %q", args[0])
			}
			accountID, err := resolveAccount(ctx, account)
			if err != nil {
				return err
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.SetCredits(cmd.Context(), accountID, amount); err != nil {
				return fmt.Errorf("set balance: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account %s: %d credits\n", accountID, amount)
			return nil
		},
	}

	creditsCmd.PersistentFlags().StringVar(&account, "account", "", "Credit account (default: account.id from config)")
	creditsCmd.AddCommand(setCmd)

	return creditsCmd
}

func resolveAccount(ctx *commandContext, flag string) (string, error) {
	if id := strings.TrimSpace(flag); id != "" {
		return id, nil
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return "", fmt.Errorf("load configuration: %w", err)
	}
	return cfg.Account.ID, nil
}
