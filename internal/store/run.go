package store

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/keml-analysis/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const DefaultRunListLimit = 50

type RunStore struct {
	db DB
}

func NewRunStore(db DB) *RunStore {
	return &RunStore{db: db}
}

func (s *RunStore) CreateRun(ctx context.Context, r *domain.AnalysisRun) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	err := s.db.QueryRow(ctx,
		`INSERT INTO analysis_runs (id, title, source, information_count, argument_count)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		r.ID, r.Title, r.Source, r.InformationCount, r.ArgumentCount,
	).Scan(&r.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *RunStore) GetRun(ctx context.Context, id uuid.UUID) (*domain.AnalysisRun, error) {
	r := &domain.AnalysisRun{}
	err := s.db.QueryRow(ctx,
		`SELECT id, title, source, information_count, argument_count, created_at
		 FROM analysis_runs WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.Title, &r.Source, &r.InformationCount, &r.ArgumentCount, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

// ListRuns returns the most recent runs first.
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]domain.AnalysisRun, error) {
	if limit <= 0 {
		limit = DefaultRunListLimit
	}
	rows, err := s.db.Query(ctx,
		`SELECT id, title, source, information_count, argument_count, created_at
		 FROM analysis_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.AnalysisRun
	for rows.Next() {
		var r domain.AnalysisRun
		if err := rows.Scan(&r.ID, &r.Title, &r.Source, &r.InformationCount, &r.ArgumentCount, &r.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// SaveTrustRows stores all rows of a run in one transaction.
func (s *RunStore) SaveTrustRows(ctx context.Context, runID uuid.UUID, rows []domain.TrustRow) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, r := range rows {
		_, err := tx.Exec(ctx,
			`INSERT INTO trust_rows
			 (run_id, weight, configuration, information_id, timing, message, initial_trust, current_trust)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			runID, r.Weight, r.Configuration, r.InformationID, r.Timing, r.Message, r.InitialTrust, r.CurrentTrust,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return ErrNotFound
			}
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *RunStore) GetTrustRows(ctx context.Context, runID uuid.UUID) ([]domain.TrustRow, error) {
	rows, err := s.db.Query(ctx,
		`SELECT run_id, weight, configuration, information_id, timing, message, initial_trust, current_trust
		 FROM trust_rows WHERE run_id = $1
		 ORDER BY weight, configuration, timing, message`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.TrustRow
	for rows.Next() {
		var r domain.TrustRow
		if err := rows.Scan(&r.RunID, &r.Weight, &r.Configuration, &r.InformationID,
			&r.Timing, &r.Message, &r.InitialTrust, &r.CurrentTrust); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
