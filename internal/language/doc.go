// Package language normalizes user-supplied language identifiers for the
// transcription and translation services using BCP-47 parsing.
package language
