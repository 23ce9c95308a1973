package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"subforge/internal/language"
	"subforge/internal/render"
	"subforge/internal/subtitle"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var mediaID string
	var cueLanguage string

	cmd := &cobra.Command{
		Use:   "import <subtitle-file>",
		Short: "Import an SRT file as a stored transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := resolveMediaPath(args[0])
			if err != nil {
				return err
			}

			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			raw, err := os.ReadFile(source)
			if err != nil {
				return fmt.Errorf("read subtitle file: %w", err)
			}
			cues, err := render.ParseSRT(string(raw))
			if err != nil {
				return fmt.Errorf("parse subtitle file: %w", err)
			}
			if err := subtitle.ValidateOrder(cues); err != nil {
				return fmt.Errorf("subtitle file is not in playback order: %w", err)
			}

			id := strings.TrimSpace(mediaID)
			if id == "" {
				id = mediaBaseName(source)
			}
			lang := language.ToISO2(cueLanguage)
			if lang == "" {
				lang = "und"
			}

			if err := st.SaveTranscript(cmd.Context(), id, lang, cues); err != nil {
				return fmt.Errorf("save transcript: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d cues (media: %s, language: %s)\n", len(cues), id, lang)
			return nil
		},
	}

	cmd.Flags().StringVar(&mediaID, "media-id", "", "Identifier to store the transcript under (default: file base name)")
	cmd.Flags().StringVarP(&cueLanguage, "language", "l", "", "Language of the imported cues (ISO 639 code)")

	return cmd
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var format string
	var cueLanguage string
	var account string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export <media-id>",
		Short: "Export stored cues as SRT, plain text, or an ASS script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mediaID := strings.TrimSpace(args[0])
			if mediaID == "" {
				return fmt.Errorf("media id is required")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			var cues []subtitle.Cue
			if lang := language.ToISO2(cueLanguage); lang != "" {
				cues, err = st.Translation(cmd.Context(), mediaID, lang)
				if err != nil {
					return fmt.Errorf("load %s translation for %q: %w", lang, mediaID, err)
				}
			} else {
				cues, _, err = st.Transcript(cmd.Context(), mediaID)
				if err != nil {
					return fmt.Errorf("load transcript for %q: %w", mediaID, err)
				}
			}

			var content string
			switch strings.ToLower(strings.TrimSpace(format)) {
			case "", "srt":
				content = render.SRT(cues)
			case "txt", "text":
				content = render.Transcript(cues)
			case "ass":
				accountID := strings.TrimSpace(account)
				if accountID == "" {
					accountID = cfg.Account.ID
				}
				style, err := st.Style(cmd.Context(), accountID)
				if err != nil {
					return fmt.Errorf("load style profile: %w", err)
				}
				content, err = render.Script(cues, style)
				if err != nil {
					return fmt.Errorf("render subtitle script: %w", err)
				}
			default:
				return fmt.Errorf("unsupported export format %q (use srt, txt, or ass)", format)
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				fmt.Fprint(cmd.OutOrStdout(), content)
				return nil
			}
			if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
				return fmt.Errorf("write export file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d cues to %s\n", len(cues), target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "srt", "Export format: srt, txt, or ass")
	cmd.Flags().StringVarP(&cueLanguage, "language", "l", "", "Export the translation in this language instead of the transcript")
	cmd.Flags().StringVar(&account, "account", "", "Account whose style profile to use for ass export")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")

	return cmd
}
