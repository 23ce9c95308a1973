// Package store is the persistence collaborator for the pipeline: completed
// transcripts keyed by media ID, translated cue sets, style profiles,
// composed-output records, job history, and per-account usage credits with
// atomic debit semantics. Backed by SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"subforge/internal/pipeline"
	"subforge/internal/subtitle"
)

// Store manages pipeline persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the database and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store: database path required")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: ensure directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) applySchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS transcripts (
			media_id   TEXT PRIMARY KEY,
			language   TEXT NOT NULL,
			cues_json  TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS translations (
			id         TEXT PRIMARY KEY,
			media_id   TEXT NOT NULL,
			language   TEXT NOT NULL,
			cues_json  TEXT NOT NULL,
			created_at TEXT NOT NULL,
			UNIQUE (media_id, language)
		)`,
		`CREATE TABLE IF NOT EXISTS style_profiles (
			account_id   TEXT PRIMARY KEY,
			profile_json TEXT NOT NULL,
			updated_at   TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS compositions (
			id         TEXT PRIMARY KEY,
			media_id   TEXT NOT NULL,
			location   TEXT NOT NULL,
			format     TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS credits (
			account_id TEXT PRIMARY KEY,
			balance    INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS jobs (
			id         TEXT PRIMARY KEY,
			media_id   TEXT NOT NULL,
			kind       TEXT NOT NULL,
			status     TEXT NOT NULL,
			error      TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	}
	for _, statement := range statements {
		if _, err := s.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("store: apply schema: %w", err)
		}
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// SaveTranscript stores (or replaces) the complete transcript for a media
// item. Callers must only persist complete transcripts; partial merges are
// discarded upstream.
func (s *Store) SaveTranscript(ctx context.Context, mediaID, lang string, cues []subtitle.Cue) error {
	if strings.TrimSpace(mediaID) == "" {
		return errors.New("store: media id required")
	}
	payload, err := json.Marshal(cues)
	if err != nil {
		return fmt.Errorf("store: marshal cues: %w", err)
	}
	timestamp := now()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO transcripts (media_id, language, cues_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(media_id) DO UPDATE SET
			language = excluded.language,
			cues_json = excluded.cues_json,
			updated_at = excluded.updated_at`,
		mediaID, lang, string(payload), timestamp, timestamp)
	if err != nil {
		return fmt.Errorf("store: save transcript: %w", err)
	}
	return nil
}

// Transcript returns the stored transcript and its language. Missing media
// is reported with the not-found marker so callers can branch into the
// transcription pipeline.
func (s *Store) Transcript(ctx context.Context, mediaID string) ([]subtitle.Cue, string, error) {
	var cuesJSON, lang string
	err := s.db.QueryRowContext(ctx,
		`SELECT cues_json, language FROM transcripts WHERE media_id = ?`, mediaID).
		Scan(&cuesJSON, &lang)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", pipeline.Wrap(pipeline.ErrNotFound, "store", "transcript", mediaID, nil)
	}
	if err != nil {
		return nil, "", fmt.Errorf("store: load transcript: %w", err)
	}
	var cues []subtitle.Cue
	if err := json.Unmarshal([]byte(cuesJSON), &cues); err != nil {
		return nil, "", fmt.Errorf("store: decode transcript: %w", err)
	}
	return cues, lang, nil
}

// HasTranscript reports whether a complete transcript exists for the media,
// letting callers bypass the transcription orchestrator on repeat requests.
func (s *Store) HasTranscript(ctx context.Context, mediaID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM transcripts WHERE media_id = ?`, mediaID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: check transcript: %w", err)
	}
	return true, nil
}

// DebitAndRecordTranslation debits the account's credit balance and inserts
// the translation record in one transaction: both happen or neither does.
func (s *Store) DebitAndRecordTranslation(ctx context.Context, accountID, mediaID, lang string, cues []subtitle.Cue, cost int) error {
	if cost < 0 {
		return errors.New("store: negative cost")
	}
	payload, err := json.Marshal(cues)
	if err != nil {
		return fmt.Errorf("store: marshal cues: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var balance int
	err = tx.QueryRowContext(ctx,
		`SELECT balance FROM credits WHERE account_id = ?`, accountID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		balance = 0
	} else if err != nil {
		return fmt.Errorf("store: load balance: %w", err)
	}
	if balance < cost {
		return pipeline.Wrap(pipeline.ErrInsufficientCredit, "store", "debit",
			fmt.Sprintf("balance %d, cost %d", balance, cost), nil)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE credits SET balance = balance - ? WHERE account_id = ?`, cost, accountID); err != nil {
		return fmt.Errorf("store: debit: %w", err)
	}
	timestamp := now()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO translations (id, media_id, language, cues_json, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(media_id, language) DO UPDATE SET
			cues_json = excluded.cues_json,
			created_at = excluded.created_at`,
		uuid.NewString(), mediaID, lang, string(payload), timestamp); err != nil {
		return fmt.Errorf("store: record translation: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// Translation returns the stored translated cues for a media and language.
func (s *Store) Translation(ctx context.Context, mediaID, lang string) ([]subtitle.Cue, error) {
	var cuesJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT cues_json FROM translations WHERE media_id = ? AND language = ?`, mediaID, lang).
		Scan(&cuesJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pipeline.Wrap(pipeline.ErrNotFound, "store", "translation", mediaID+"/"+lang, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load translation: %w", err)
	}
	var cues []subtitle.Cue
	if err := json.Unmarshal([]byte(cuesJSON), &cues); err != nil {
		return nil, fmt.Errorf("store: decode translation: %w", err)
	}
	return cues, nil
}

// SetCredits sets the account's balance, creating the row when missing.
func (s *Store) SetCredits(ctx context.Context, accountID string, balance int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO credits (account_id, balance) VALUES (?, ?)
		 ON CONFLICT(account_id) DO UPDATE SET balance = excluded.balance`,
		accountID, balance)
	if err != nil {
		return fmt.Errorf("store: set credits: %w", err)
	}
	return nil
}

// Credits returns the account's balance; missing accounts have zero.
func (s *Store) Credits(ctx context.Context, accountID string) (int, error) {
	var balance int
	err := s.db.QueryRowContext(ctx,
		`SELECT balance FROM credits WHERE account_id = ?`, accountID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("store: load credits: %w", err)
	}
	return balance, nil
}

// SaveStyle stores the account's style profile.
func (s *Store) SaveStyle(ctx context.Context, accountID string, style subtitle.StyleProfile) error {
	payload, err := json.Marshal(style)
	if err != nil {
		return fmt.Errorf("store: marshal style: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO style_profiles (account_id, profile_json, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(account_id) DO UPDATE SET
			profile_json = excluded.profile_json,
			updated_at = excluded.updated_at`,
		accountID, string(payload), now())
	if err != nil {
		return fmt.Errorf("store: save style: %w", err)
	}
	return nil
}

// Style returns the account's style profile, falling back to the default
// profile for accounts that never customized it.
func (s *Store) Style(ctx context.Context, accountID string) (subtitle.StyleProfile, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT profile_json FROM style_profiles WHERE account_id = ?`, accountID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return subtitle.DefaultStyle(), nil
	}
	if err != nil {
		return subtitle.StyleProfile{}, fmt.Errorf("store: load style: %w", err)
	}
	var style subtitle.StyleProfile
	if err := json.Unmarshal([]byte(payload), &style); err != nil {
		return subtitle.StyleProfile{}, fmt.Errorf("store: decode style: %w", err)
	}
	return style, nil
}

// RecordComposition stores a reference to a composed output and returns its ID.
func (s *Store) RecordComposition(ctx context.Context, mediaID, location, format string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO compositions (id, media_id, location, format, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, mediaID, location, format, now())
	if err != nil {
		return "", fmt.Errorf("store: record composition: %w", err)
	}
	return id, nil
}
