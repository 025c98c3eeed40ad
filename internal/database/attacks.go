package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nao1215/smartpass/internal/model"
)

// AttackRecord is a stored row of attack_results.
type AttackRecord struct {
	ID int64 `json:"id"`

	// TargetDigest is the digest that was attacked.
	TargetDigest string `json:"target_digest"`

	// Source describes the search space: the wordlist name for dictionary
	// runs, or the charset and length range for brute-force runs.
	Source string `json:"source"`

	// Result is the engine outcome.
	Result model.AttackResult `json:"result"`

	CreatedAt time.Time `json:"created_at"`
}

// AttackFilter narrows ListAttackResults. Zero fields match everything.
type AttackFilter struct {
	TargetDigest string
	Engine       model.Engine
	Limit        int
}

// InsertAttackResult stores one attack outcome and returns its row ID.
func (s *Store) InsertAttackResult(ctx context.Context, rec *AttackRecord) (int64, error) {
	query := `
	INSERT INTO attack_results (engine, target_digest, source, found, plaintext, attempts, elapsed_ms, termination_reason, next_position)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	r := rec.Result
	result, err := s.db.ExecContext(ctx, query,
		string(r.Engine),
		rec.TargetDigest,
		rec.Source,
		r.Found,
		r.Plaintext,
		int64(r.Attempts), //nolint:gosec // counts stay far below 2^63
		r.ElapsedMillis,
		string(r.TerminationReason),
		int64(r.NextPosition), //nolint:gosec // positions stay far below 2^63
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert attack result: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read attack result id: %w", err)
	}
	rec.ID = id
	return id, nil
}

// GetAttackResult returns the attack record with the given ID, or nil, nil
// when there is none.
func (s *Store) GetAttackResult(ctx context.Context, id int64) (*AttackRecord, error) {
	query := `
	SELECT id, engine, target_digest, source, found, plaintext, attempts, elapsed_ms, termination_reason, next_position, created_at
	FROM attack_results
	WHERE id = ?
	`

	rec, err := scanAttack(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attack result: %w", err)
	}
	return rec, nil
}

// ListAttackResults returns attack records matching filter, newest first.
func (s *Store) ListAttackResults(ctx context.Context, filter AttackFilter) ([]AttackRecord, error) {
	query := `
	SELECT id, engine, target_digest, source, found, plaintext, attempts, elapsed_ms, termination_reason, next_position, created_at
	FROM attack_results
	WHERE 1=1
	`
	args := make([]any, 0, 3)

	if filter.TargetDigest != "" {
		query += " AND target_digest = ?"
		args = append(args, filter.TargetDigest)
	}
	if filter.Engine != "" {
		query += " AND engine = ?"
		args = append(args, string(filter.Engine))
	}

	query += " ORDER BY id DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attack results: %w", err)
	}
	defer rows.Close()

	var results []AttackRecord
	for rows.Next() {
		rec, err := scanAttack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attack result: %w", err)
		}
		results = append(results, *rec)
	}

	return results, rows.Err()
}

// LatestResumePosition returns the NextPosition of the newest brute-force
// run against digest over source when that run stopped before finishing its
// space. It returns 0 when there is nothing to resume.
func (s *Store) LatestResumePosition(ctx context.Context, digest, source string) (uint64, error) {
	query := `
	SELECT next_position, termination_reason FROM attack_results
	WHERE target_digest = ? AND source = ? AND engine = ?
	ORDER BY id DESC
	LIMIT 1
	`

	var (
		pos    int64
		reason string
	)
	err := s.db.QueryRowContext(ctx, query, digest, source, string(model.EngineBruteForce)).Scan(&pos, &reason)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get resume position: %w", err)
	}

	switch model.TerminationReason(reason) {
	case model.ReasonAttemptsExhausted, model.ReasonTimeExhausted, model.ReasonCancelled:
		return uint64(max(pos, 0)), nil
	default:
		return 0, nil
	}
}

func scanAttack(row rowScanner) (*AttackRecord, error) {
	var (
		rec       AttackRecord
		engine    string
		reason    string
		attempts  int64
		nextPos   int64
		timestamp string
	)

	err := row.Scan(
		&rec.ID,
		&engine,
		&rec.TargetDigest,
		&rec.Source,
		&rec.Result.Found,
		&rec.Result.Plaintext,
		&attempts,
		&rec.Result.ElapsedMillis,
		&reason,
		&nextPos,
		&timestamp,
	)
	if err != nil {
		return nil, err
	}

	rec.Result.Engine = model.Engine(engine)
	rec.Result.TerminationReason = model.TerminationReason(reason)
	rec.Result.Attempts = uint64(max(attempts, 0))
	rec.Result.NextPosition = uint64(max(nextPos, 0))
	rec.CreatedAt = parseTimestamp(timestamp)
	return &rec, nil
}
