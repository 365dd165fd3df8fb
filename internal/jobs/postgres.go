package jobs

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/justin-aj/tailor-resume-ai/internal/database"
)

// PostgresStore persists jobs through the shared pool. Schema comes
// from the embedded migrations.
type PostgresStore struct {
	db database.DB
}

func NewPostgresStore(db database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const jobColumns = `id, url, title, company, location, salary_range, description,
	status, applied, prompt, prompt_word_count, prompt_char_count, last_error,
	created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, j Job) error {
	_, err := s.db.Exec(ctx, `
INSERT INTO jobs (`+jobColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		j.ID, j.URL, j.Title, j.Company, j.Location, j.SalaryRange, j.Description,
		string(j.Status), j.Applied, j.Prompt, j.PromptWordCount, j.PromptCharCount,
		j.LastError, j.CreatedAt, j.UpdatedAt,
	)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (Job, error) {
	row := s.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	j, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return j, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Job, error) {
	rows, err := s.db.Query(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, j Job) error {
	n, err := s.db.Exec(ctx, `
UPDATE jobs SET
	url = $2, title = $3, company = $4, location = $5, salary_range = $6,
	description = $7, status = $8, applied = $9, prompt = $10,
	prompt_word_count = $11, prompt_char_count = $12, last_error = $13,
	updated_at = $14
WHERE id = $1`,
		j.ID, j.URL, j.Title, j.Company, j.Location, j.SalaryRange,
		j.Description, string(j.Status), j.Applied, j.Prompt,
		j.PromptWordCount, j.PromptCharCount, j.LastError, j.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanJob(row database.Row) (Job, error) {
	var j Job
	var status string
	err := row.Scan(
		&j.ID, &j.URL, &j.Title, &j.Company, &j.Location, &j.SalaryRange,
		&j.Description, &status, &j.Applied, &j.Prompt, &j.PromptWordCount,
		&j.PromptCharCount, &j.LastError, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return Job{}, err
	}
	j.Status = Status(status)
	return j, nil
}
