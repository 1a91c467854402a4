package job

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matsen/doifind/internal/citation"
	"github.com/matsen/doifind/internal/extract"
	"github.com/matsen/doifind/internal/style"
)

// SQLiteStore persists jobs in a SQLite database. The citation list is
// stored as a JSON blob; jobs are read and written whole.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates a job database at the given path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening job database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			filename TEXT,
			status TEXT NOT NULL,
			progress INTEGER NOT NULL,
			style TEXT,
			section_strategy TEXT,
			split_strategy TEXT,
			created_at TEXT NOT NULL,
			completed_at TEXT,
			error TEXT,
			citations_json TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
	`
	_, err := db.Exec(schema)
	return err
}

const jobFields = `id, filename, status, progress, style,
	section_strategy, split_strategy, created_at, completed_at, error,
	citations_json`

// Create implements Store.
func (s *SQLiteStore) Create(job *Job) error {
	citationsJSON, err := json.Marshal(job.Citations)
	if err != nil {
		return fmt.Errorf("encoding citations: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO jobs (`+jobFields+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, job.Filename, string(job.Status), job.Progress,
		string(job.Style), string(job.SectionStrategy), string(job.SplitStrategy),
		job.CreatedAt.Format(time.RFC3339), formatCompletedAt(job.CompletedAt),
		job.Error, string(citationsJSON))
	if err != nil {
		return fmt.Errorf("inserting job: %w", err)
	}
	return nil
}

// Update implements Store.
func (s *SQLiteStore) Update(job *Job) error {
	citationsJSON, err := json.Marshal(job.Citations)
	if err != nil {
		return fmt.Errorf("encoding citations: %w", err)
	}

	result, err := s.db.Exec(`
		UPDATE jobs SET filename = ?, status = ?, progress = ?, style = ?,
			section_strategy = ?, split_strategy = ?,
			completed_at = ?, error = ?, citations_json = ?
		WHERE id = ?`,
		job.Filename, string(job.Status), job.Progress, string(job.Style),
		string(job.SectionStrategy), string(job.SplitStrategy),
		formatCompletedAt(job.CompletedAt), job.Error, string(citationsJSON),
		job.ID)
	if err != nil {
		return fmt.Errorf("updating job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Get implements Store.
func (s *SQLiteStore) Get(id string) (*Job, error) {
	row := s.db.QueryRow(`SELECT `+jobFields+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return job, err
}

// List implements Store. Jobs are returned newest first.
func (s *SQLiteStore) List() ([]*Job, error) {
	rows, err := s.db.Query(`SELECT ` + jobFields + ` FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// scanner matches both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*Job, error) {
	var (
		job                    Job
		status, st             string
		sectionStrat, splitStr string
		createdAt, completedAt string
		citationsJSON          string
	)

	err := row.Scan(&job.ID, &job.Filename, &status, &job.Progress, &st,
		&sectionStrat, &splitStr, &createdAt, &completedAt, &job.Error,
		&citationsJSON)
	if err != nil {
		return nil, err
	}

	job.Status = Status(status)
	job.Style = style.Style(st)
	job.SectionStrategy = extract.SectionStrategy(sectionStrat)
	job.SplitStrategy = extract.SplitStrategy(splitStr)

	if job.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if completedAt != "" {
		if job.CompletedAt, err = time.Parse(time.RFC3339, completedAt); err != nil {
			return nil, fmt.Errorf("parsing completed_at: %w", err)
		}
	}

	if err := json.Unmarshal([]byte(citationsJSON), &job.Citations); err != nil {
		return nil, fmt.Errorf("decoding citations: %w", err)
	}
	job.Stats = citation.Summarize(job.Citations)

	return &job, nil
}

func formatCompletedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
