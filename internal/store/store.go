// Package store persists OCR job status and segmentation results in SQLite,
// keyed by document path.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tsawler/sectioner/logging"
	"github.com/tsawler/sectioner/model"
	"github.com/tsawler/sectioner/ocr"
)

// ErrNotFound is returned when a job does not exist.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
    id          TEXT PRIMARY KEY,
    path        TEXT NOT NULL,
    status      TEXT NOT NULL,
    created_at  INTEGER NOT NULL,
    updated_at  INTEGER NOT NULL,
    completed_at INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS sections (
    path        TEXT NOT NULL,
    idx         INTEGER NOT NULL,
    header      TEXT NOT NULL,
    anchor      INTEGER NOT NULL,
    page        INTEGER NOT NULL,
    body        TEXT NOT NULL,
    sentiment   TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (path, idx)
);

CREATE TABLE IF NOT EXISTS paragraphs (
    path        TEXT NOT NULL,
    idx         INTEGER NOT NULL,
    body        TEXT NOT NULL,
    PRIMARY KEY (path, idx)
);

CREATE INDEX IF NOT EXISTS idx_jobs_path ON jobs(path);
`

// Job is a submitted OCR job.
type Job struct {
	ID        string
	Path      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time

	// CompletedAt is the completion time reported by the OCR service,
	// zero until the job finishes
	CompletedAt time.Time
}

// Store wraps an SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(10000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// DB returns the underlying *sql.DB.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

// --- Jobs ---

// SubmitJob records a new job for path with a generated ID and
// SUBMITTED status.
func (s *Store) SubmitJob(ctx context.Context, path string) (*Job, error) {
	now := time.Now().UTC()
	job := &Job{
		ID:        uuid.NewString(),
		Path:      path,
		Status:    ocr.StatusSubmitted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, path, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		job.ID, job.Path, job.Status, now.UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("submit job: %w", err)
	}

	logging.Logger().Debug("job submitted", "job", job.ID, "path", path)
	return job, nil
}

// UpdateJobStatus sets the status of job id. completedAt is the time the
// OCR service finished the job; pass the zero time while it is running.
func (s *Store) UpdateJobStatus(ctx context.Context, id, status string, completedAt time.Time) error {
	var completed int64
	if !completedAt.IsZero() {
		completed = completedAt.UTC().UnixMilli()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, updated_at = ?, completed_at = ? WHERE id = ?`,
		status, time.Now().UTC().UnixMilli(), completed, id,
	)
	if err != nil {
		return fmt.Errorf("update job %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return nil
}

// Job returns the job with the given ID.
func (s *Store) Job(ctx context.Context, id string) (*Job, error) {
	var (
		job                         Job
		created, updated, completed int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, path, status, created_at, updated_at, completed_at FROM jobs WHERE id = ?`, id,
	).Scan(&job.ID, &job.Path, &job.Status, &created, &updated, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	job.CreatedAt = time.UnixMilli(created).UTC()
	job.UpdatedAt = time.UnixMilli(updated).UTC()
	if completed != 0 {
		job.CompletedAt = time.UnixMilli(completed).UTC()
	}
	return &job, nil
}

// --- Results ---

// SaveDocument stores the sections and paragraphs of doc under doc.Path.
func (s *Store) SaveDocument(ctx context.Context, doc *model.Document) error {
	if doc == nil {
		return nil
	}
	if err := s.SaveSections(ctx, doc.Path, doc.Sections); err != nil {
		return err
	}
	paras := make([]string, len(doc.Paragraphs))
	for i, p := range doc.Paragraphs {
		paras[i] = p.Text
	}
	return s.SaveParagraphs(ctx, doc.Path, paras)
}

// SaveSections replaces the sections stored for path.
func (s *Store) SaveSections(ctx context.Context, path string, sections []model.Section) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE path = ?`, path); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sections (path, idx, header, anchor, page, body, sentiment) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i, sec := range sections {
		if _, err := stmt.ExecContext(ctx, path, i, sec.Header, sec.Anchor, sec.Page, sec.Text, sec.Sentiment); err != nil {
			return fmt.Errorf("insert section %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// SaveParagraphs replaces the paragraphs stored for path.
func (s *Store) SaveParagraphs(ctx context.Context, path string, paragraphs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM paragraphs WHERE path = ?`, path); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO paragraphs (path, idx, body) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i, text := range paragraphs {
		if _, err := stmt.ExecContext(ctx, path, i, text); err != nil {
			return fmt.Errorf("insert paragraph %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Sections returns the sections stored for path in their original order.
func (s *Store) Sections(ctx context.Context, path string) ([]model.Section, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT header, anchor, page, body, sentiment FROM sections WHERE path = ? ORDER BY idx`, path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []model.Section
	for rows.Next() {
		var sec model.Section
		if err := rows.Scan(&sec.Header, &sec.Anchor, &sec.Page, &sec.Text, &sec.Sentiment); err != nil {
			return nil, err
		}
		sections = append(sections, sec)
	}
	return sections, rows.Err()
}

// Paragraphs returns the paragraphs stored for path in their original order.
func (s *Store) Paragraphs(ctx context.Context, path string) ([]model.Paragraph, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, body FROM paragraphs WHERE path = ? ORDER BY idx`, path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paras []model.Paragraph
	for rows.Next() {
		var p model.Paragraph
		if err := rows.Scan(&p.Index, &p.Text); err != nil {
			return nil, err
		}
		paras = append(paras, p)
	}
	return paras, rows.Err()
}
