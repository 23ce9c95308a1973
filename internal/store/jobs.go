package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"subforge/internal/pipeline"
)

// Status describes a job's lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Job records one pipeline run for history and CLI listing.
type Job struct {
	ID        string
	MediaID   string
	Kind      string
	Status    Status
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Job kinds.
const (
	KindTranscribe = "transcribe"
	KindTranslate  = "translate"
	KindBurn       = "burn"
)

// CreateJob inserts a pending job and returns it.
func (s *Store) CreateJob(ctx context.Context, mediaID, kind string) (*Job, error) {
	if strings.TrimSpace(mediaID) == "" {
		return nil, errors.New("store: media id required")
	}
	job := &Job{
		ID:        uuid.NewString(),
		MediaID:   mediaID,
		Kind:      kind,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, media_id, kind, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		job.ID, job.MediaID, job.Kind, job.Status,
		job.CreatedAt.Format(time.RFC3339Nano), job.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("store: create job: %w", err)
	}
	return job, nil
}

// UpdateJobStatus transitions a job, recording the failure message for
// failed jobs.
func (s *Store) UpdateJobStatus(ctx context.Context, jobID string, status Status, jobErr error) error {
	message := ""
	if jobErr != nil {
		message = jobErr.Error()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		status, nullableString(message), time.Now().UTC().Format(time.RFC3339Nano), jobID)
	if err != nil {
		return fmt.Errorf("store: update job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: update job: %w", err)
	}
	if affected == 0 {
		return pipeline.Wrap(pipeline.ErrNotFound, "store", "update job", jobID, nil)
	}
	return nil
}

// ListJobs returns jobs newest first, up to limit (0 for all).
func (s *Store) ListJobs(ctx context.Context, limit int) ([]Job, error) {
	query := `SELECT id, media_id, kind, status, error, created_at, updated_at
		 FROM jobs ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var job Job
		var jobErr sql.NullString
		var createdAt, updatedAt string
		if err := rows.Scan(&job.ID, &job.MediaID, &job.Kind, &job.Status, &jobErr, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("store: scan job: %w", err)
		}
		job.Error = jobErr.String
		job.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		job.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate jobs: %w", err)
	}
	return jobs, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
