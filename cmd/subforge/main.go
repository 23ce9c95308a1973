package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"subforge/internal/pipeline"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, renderError(err))
		}
		os.Exit(1)
	}
}

// pipelineMarkers are the failure classes with dedicated user guidance.
var pipelineMarkers = []error{
	pipeline.ErrInsufficientCredit,
	pipeline.ErrTranslationFormat,
	pipeline.ErrParse,
	pipeline.ErrEncoding,
	pipeline.ErrComposition,
	pipeline.ErrSegment,
	pipeline.ErrTransient,
}

// renderError appends actionable guidance to failures from the pipeline
// error taxonomy; plain CLI errors print as-is.
func renderError(err error) string {
	for _, marker := range pipelineMarkers {
		if errors.Is(err, marker) {
			return fmt.Sprintf("%v\n%s", err, pipeline.UserMessage(err))
		}
	}
	return err.Error()
}
