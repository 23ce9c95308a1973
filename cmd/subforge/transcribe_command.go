package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"subforge/internal/language"
	"subforge/internal/logging"
	"subforge/internal/media/audio"
	"subforge/internal/media/probe"
	"subforge/internal/services/speech"
	"subforge/internal/store"
	"subforge/internal/subtitle"
	"subforge/internal/transcribe"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var mediaID string
	var languageHint string
	var startSeconds float64
	var endSeconds float64

	cmd := &cobra.Command{
		Use:   "transcribe <media-file>",
		Short: "Transcribe a media file into timed subtitle cues",
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
			lang := language.ToISO2(languageHint)
			if strings.TrimSpace(languageHint) != "" && lang == "" {
				return fmt.Errorf("unrecognized language %q", languageHint)
			}

			runCtx := logging.WithMediaID(cmd.Context(), id)
			job, err := st.CreateJob(runCtx, id, store.KindTranscribe)
			if err != nil {
				return fmt.Errorf("record job: %w", err)
			}
			runCtx = logging.WithJobID(runCtx, job.ID)
			if err := st.UpdateJobStatus(runCtx, job.ID, store.StatusRunning, nil); err != nil {
				return fmt.Errorf("update job: %w", err)
			}

			window := subtitle.TimeRange{Start: startSeconds, End: endSeconds}
			if window.End <= window.Start {
				prober := probe.New(cfg.FFprobeBinary())
				duration, err := prober.Duration(runCtx, source)
				if err != nil {
					_ = st.UpdateJobStatus(runCtx, job.ID, store.StatusFailed, err)
					return fmt.Errorf("probe media duration: %w", err)
				}
				window = subtitle.TimeRange{Start: startSeconds, End: duration}
			}

			payload, err := os.ReadFile(source)
			if err != nil {
				_ = st.UpdateJobStatus(runCtx, job.ID, store.StatusFailed, err)
				return fmt.Errorf("read media file: %w", err)
			}

			extractor := audio.NewExtractor(cfg.FFmpegBinary(), audio.WithTempDir(cfg.Paths.WorkDir))
			client := speech.NewClient(speech.Config{
				APIKey:         cfg.Speech.APIKey,
				BaseURL:        cfg.Speech.BaseURL,
				Model:          cfg.Speech.Model,
				TimeoutSeconds: cfg.Speech.TimeoutSeconds,
			})
			jobLogger := logging.NewComponentLogger(logging.WithContext(runCtx, logger), "transcriber")
			orchestrator := transcribe.New(extractor, client,
				transcribe.WithSegmentDuration(float64(cfg.Speech.SegmentSeconds)),
				transcribe.WithLogger(jobLogger),
			)

			cues, err := orchestrator.Run(runCtx, payload, window, lang)
			if err != nil {
				jobLogger.Error("transcription failed", logging.Error(err))
				_ = st.UpdateJobStatus(runCtx, job.ID, store.StatusFailed, err)
				return fmt.Errorf("transcription failed: %w", err)
			}

			storedLang := lang
			if storedLang == "" {
				storedLang = "und"
			}
			if err := st.SaveTranscript(runCtx, id, storedLang, cues); err != nil {
				_ = st.UpdateJobStatus(runCtx, job.ID, store.StatusFailed, err)
				return fmt.Errorf("save transcript: %w", err)
			}
			if err := st.UpdateJobStatus(runCtx, job.ID, store.StatusCompleted, nil); err != nil {
				return fmt.Errorf("update job: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Transcribed %d cues (media: %s, language: %s, window: %.1fs-%.1fs)\n",
				len(cues), id, storedLang, window.Start, window.End)
			return nil
		},
	}

	cmd.Flags().StringVar(&mediaID, "media-id", "", "Identifier to store the transcript under (default: file base name)")
	cmd.Flags().StringVarP(&languageHint, "language", "l", "", "Source language hint (ISO 639 code)")
	cmd.Flags().Float64Var(&startSeconds, "start", 0, "Transcription window start in seconds")
	cmd.Flags().Float64Var(&endSeconds, "end", 0, "Transcription window end in seconds (default: media duration)")

	return cmd
}

func resolveMediaPath(arg string) (string, error) {
	source := strings.TrimSpace(arg)
	if source == "" {
		return "", fmt.Errorf("media file path is required")
	}
	source, _ = filepath.Abs(source)
	info, err := os.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("media file %q not found", source)
		}
		return "", fmt.Errorf("stat media file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("media path %q is a directory", source)
	}
	return source, nil
}

func mediaBaseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
