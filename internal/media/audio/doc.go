// Package audio extracts segment-bounded mono WAV payloads from media files
// by shelling out to ffmpeg. Extraction re-encodes to 16 kHz PCM, the input
// format the transcription service expects, and reports encoder failures with
// their exit code and captured stderr.
package audio
