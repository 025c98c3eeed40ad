package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nao1215/smartpass/internal/credential"
)

// CredentialRecord is a stored row of passwords__list.
type CredentialRecord struct {
	ID int64
	credential.Credential
	CreatedAt time.Time
}

// InsertCredential stores a generated credential and returns its row ID.
func (s *Store) InsertCredential(ctx context.Context, c credential.Credential) (int64, error) {
	query := `
	INSERT INTO passwords__list (password_plain, encrypted_password, key_base64, iv_base64, hashed_password)
	VALUES (?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		c.Password,
		c.EncryptedPassword,
		c.Key,
		c.IV,
		c.HashedPassword,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert credential: %w", err)
	}

	return result.LastInsertId()
}

// GetCredentialByHash returns the most recent credential with the digest.
// It returns nil, nil when there is none.
func (s *Store) GetCredentialByHash(ctx context.Context, digest string) (*CredentialRecord, error) {
	query := `
	SELECT id, password_plain, encrypted_password, key_base64, iv_base64, hashed_password, created_at
	FROM passwords__list
	WHERE hashed_password = ?
	ORDER BY id DESC
	LIMIT 1
	`

	rec, err := scanCredential(s.db.QueryRowContext(ctx, query, digest))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	return rec, nil
}

// ListCredentials returns up to limit credentials, newest first.
// A limit of zero or less returns every row.
func (s *Store) ListCredentials(ctx context.Context, limit int) ([]CredentialRecord, error) {
	query := `
	SELECT id, password_plain, encrypted_password, key_base64, iv_base64, hashed_password, created_at
	FROM passwords__list
	ORDER BY id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials: %w", err)
	}
	defer rows.Close()

	var results []CredentialRecord
	for rows.Next() {
		rec, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credential: %w", err)
		}
		results = append(results, *rec)
	}

	return results, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCredential(row rowScanner) (*CredentialRecord, error) {
	var rec CredentialRecord
	var timestamp string

	err := row.Scan(
		&rec.ID,
		&rec.Password,
		&rec.EncryptedPassword,
		&rec.Key,
		&rec.IV,
		&rec.HashedPassword,
		&timestamp,
	)
	if err != nil {
		return nil, err
	}
	rec.CreatedAt = parseTimestamp(timestamp)
	return &rec, nil
}
