package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"subforge/internal/compose"
	"subforge/internal/language"
	"subforge/internal/logging"
	"subforge/internal/render"
	"subforge/internal/store"
	"subforge/internal/subtitle"
)

func newBurnCommand(ctx *commandContext) *cobra.Command {
	var mediaID string
	var cueLanguage string
	var account string
	var outputPath string
	var format string

	cmd := &cobra.Command{
		Use:   "burn <media-file>",
		Short: "Burn stored subtitles into a video file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := resolveMediaPath(args[0])
			if err != nil {
				return err
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

			id := strings.TrimSpace(mediaID)
			if id == "" {
				id = mediaBaseName(source)
			}
			accountID := strings.TrimSpace(account)
			if accountID == "" {
				accountID = cfg.Account.ID
			}

			runCtx := logging.WithMediaID(cmd.Context(), id)
			job, err := st.CreateJob(runCtx, id, store.KindBurn)
			if err != nil {
				return fmt.Errorf("record job: %w", err)
			}
			runCtx = logging.WithJobID(runCtx, job.ID)
			if err := st.UpdateJobStatus(runCtx, job.ID, store.StatusRunning, nil); err != nil {
				return fmt.Errorf("update job: %w", err)
			}

			var cues []subtitle.Cue
			if lang := language.ToISO2(cueLanguage); lang != "" {
				cues, err = st.Translation(runCtx, id, lang)
				if err != nil {
					_ = st.UpdateJobStatus(runCtx, job.ID, store.StatusFailed, err)
					return fmt.Errorf("load %s translation for %q: %w", lang, id, err)
				}
			} else {
				cues, _, err = st.Transcript(runCtx, id)
				if err != nil {
					_ = st.UpdateJobStatus(runCtx, job.ID, store.StatusFailed, err)
					return fmt.Errorf("load transcript for %q: %w", id, err)
				}
			}

			style, err := st.Style(runCtx, accountID)
			if err != nil {
				_ = st.UpdateJobStatus(runCtx, job.ID, store.StatusFailed, err)
				return fmt.Errorf("load style profile: %w", err)
			}
			script, err := render.Script(cues, style)
			if err != nil {
				_ = st.UpdateJobStatus(runCtx, job.ID, store.StatusFailed, err)
				return fmt.Errorf("render subtitle script: %w", err)
			}

			output := compose.Output{
				Format:       cfg.Output.Format,
				VideoCodec:   cfg.Output.VideoCodec,
				Preset:       cfg.Output.Preset,
				CRF:          cfg.Output.CRF,
				AudioCodec:   cfg.Output.AudioCodec,
				AudioBitrate: cfg.Output.AudioBitrate,
			}
			if f := strings.TrimSpace(format); f != "" {
				output.Format = strings.ToLower(f)
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				target = filepath.Join(filepath.Dir(source), mediaBaseName(source)+".subtitled."+output.Format)
			}
			target, _ = filepath.Abs(target)

			release, err := ctx.lockWorkDir(cfg)
			if err != nil {
				_ = st.UpdateJobStatus(runCtx, job.ID, store.StatusFailed, err)
				return err
			}
			defer release()

			jobLogger := logging.NewComponentLogger(logging.WithContext(runCtx, logger), "compositor")
			compositor := compose.New(cfg.FFmpegBinary(),
				compose.WithTempDir(cfg.Paths.WorkDir),
				compose.WithLogger(jobLogger),
			)
			video, err := compositor.Burn(runCtx, source, script, output)
			if err != nil {
				jobLogger.Error("composition failed", logging.Error(err))
				_ = st.UpdateJobStatus(runCtx, job.ID, store.StatusFailed, err)
				return fmt.Errorf("composition failed: %w", err)
			}

			if err := os.WriteFile(target, video, 0o644); err != nil {
				_ = st.UpdateJobStatus(runCtx, job.ID, store.StatusFailed, err)
				return fmt.Errorf("write output file: %w", err)
			}
			if _, err := st.RecordComposition(runCtx, id, target, output.Format); err != nil {
				return fmt.Errorf("record composition: %w", err)
			}
			if err := st.UpdateJobStatus(runCtx, job.ID, store.StatusCompleted, nil); err != nil {
				return fmt.Errorf("update job: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Composed %s (%d cues, format: %s)\n", target, len(cues), output.Format)
			return nil
		},
	}

	cmd.Flags().StringVar(&mediaID, "media-id", "", "Identifier of the stored cues (default: file base name)")
	cmd.Flags().StringVarP(&cueLanguage, "language", "l", "", "Burn the translation in this language instead of the transcript")
	cmd.Flags().StringVar(&account, "account", "", "Account whose style profile to use (default: account.id from config)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output video path (default: alongside source)")
	cmd.Flags().StringVar(&format, "format", "", "Container format override (mp4, mkv, webm)")

	return cmd
}
