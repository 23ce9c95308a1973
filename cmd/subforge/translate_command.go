package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"subforge/internal/language"
	"subforge/internal/logging"
	"subforge/internal/services/translate"
	"subforge/internal/store"
	"subforge/internal/translation"
)

func newTranslateCommand(ctx *commandContext) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "translate <media-id> <target-language>",
		Short: "Translate a stored transcript into another language",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mediaID := strings.TrimSpace(args[0])
			if mediaID == "" {
				return fmt.Errorf("media id is required")
			}
			target := language.ToISO2(args[1])
			if target == "" {
				return fmt.Errorf("unrecognized target language %q", args[1])
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := ctx.buildLogger(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			accountID := strings.TrimSpace(account)
			if accountID == "" {
				accountID = cfg.Account.ID
			}

			runCtx := logging.WithMediaID(cmd.Context(), mediaID)
			cues, sourceLang, err := st.Transcript(runCtx, mediaID)
			if err != nil {
				return fmt.Errorf("load transcript for %q: %w", mediaID, err)
			}

			job, err := st.CreateJob(runCtx, mediaID, store.KindTranslate)
			if err != nil {
				return fmt.Errorf("record job: %w", err)
			}
			runCtx = logging.WithJobID(runCtx, job.ID)
			if err := st.UpdateJobStatus(runCtx, job.ID, store.StatusRunning, nil); err != nil {
				return fmt.Errorf("update job: %w", err)
			}

			client := translate.NewClient(translate.Config{
				APIKey:         cfg.Translate.APIKey,
				BaseURL:        cfg.Translate.BaseURL,
				Model:          cfg.Translate.Model,
				TimeoutSeconds: cfg.Translate.TimeoutSeconds,
			}, translate.WithRetryMaxAttempts(cfg.Translate.MaxAttempts))
			jobLogger := logging.NewComponentLogger(logging.WithContext(runCtx, logger), "translator")
			batcher := translation.New(client, translation.WithLogger(jobLogger))

			translated, err := batcher.Translate(runCtx, cues, sourceLang, target)
			if err != nil {
				jobLogger.Error("translation failed", logging.Error(err))
				_ = st.UpdateJobStatus(runCtx, job.ID, store.StatusFailed, err)
				return fmt.Errorf("translation failed: %w", err)
			}

			// One credit per cue, charged atomically with the result write.
			cost := len(translated)
			if err := st.DebitAndRecordTranslation(runCtx, accountID, mediaID, target, translated, cost); err != nil {
				_ = st.UpdateJobStatus(runCtx, job.ID, store.StatusFailed, err)
				return fmt.Errorf("record translation: %w", err)
			}
			if err := st.UpdateJobStatus(runCtx, job.ID, store.StatusCompleted, nil); err != nil {
				return fmt.Errorf("update job: %w", err)
			}

			balance, err := st.Credits(runCtx, accountID)
			if err != nil {
				return fmt.Errorf("read balance: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Translated %d cues to %s; debited %d credits (balance: %d)\n",
				len(translated), language.DisplayName(target), cost, balance)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Credit account to charge (default: account.id from config)")

	return cmd
}
