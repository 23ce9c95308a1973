package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrParse              = errors.New("parse error")
	ErrEncoding           = errors.New("audio encoding error")
	ErrComposition        = errors.New("video composition error")
	ErrTranslationFormat  = errors.New("translation format error")
	ErrSegment            = errors.New("segment processing error")
	ErrInsufficientCredit = errors.New("insufficient credit")
	ErrNotFound           = errors.New("not found")
	ErrTransient          = errors.New("transient failure")
)

// EncodingError reports a non-zero exit from the audio subprocess.
type EncodingError struct {
	ExitCode int
	Stderr   string
}

func (e *EncodingError) Error() string {
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		return fmt.Sprintf("audio encoder exited with code %d: %s", e.ExitCode, msg)
	}
	return fmt.Sprintf("audio encoder exited with code %d", e.ExitCode)
}

func (e *EncodingError) Unwrap() error { return ErrEncoding }

// CompositionError reports a non-zero exit from the video subprocess.
type CompositionError struct {
	ExitCode int
	Stderr   string
}

func (e *CompositionError) Error() string {
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		return fmt.Sprintf("video encoder exited with code %d: %s", e.ExitCode, msg)
	}
	return fmt.Sprintf("video encoder exited with code %d", e.ExitCode)
}

func (e *CompositionError) Unwrap() error { return ErrComposition }

// SegmentError wraps a failure while processing one transcription segment.
// Index is the zero-based position in the planned segment sequence.
type SegmentError struct {
	Index int
	Err   error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("segment %d: %v", e.Index, e.Err)
}

func (e *SegmentError) Unwrap() error { return ErrSegment }

// Cause returns the underlying segment failure.
func (e *SegmentError) Cause() error { return e.Err }

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// UserMessage maps a pipeline error to text suitable for end users. Credit
// and format failures are actionable; everything else gets a retry hint.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientCredit):
		return "not enough credits for this operation"
	case errors.Is(err, ErrTranslationFormat):
		return "the translation service returned an invalid response; try a different target language or retry"
	case errors.Is(err, ErrParse):
		return "the subtitle file contains malformed timestamps"
	default:
		return "processing failed; please retry"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
