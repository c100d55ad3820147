package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/erazemk/shramba/internal/db"
)

// Tokens tracks revoked identity tokens by JTI.
type Tokens struct {
	DB *sql.DB
}

// Revoke adds a token's JTI to the revocation list until it would have expired anyway.
func (s *Tokens) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT OR IGNORE INTO revoked_tokens (jti, expires_at) VALUES (?, ?)`,
		jti, db.FormatTime(expiresAt),
	)
	if err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}

	// Expired entries can never match a valid token again. A failed purge
	// leaves them for the next revocation.
	if _, err := s.DB.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < ?`, db.FormatTime(time.Now()),
	); err != nil {
		slog.WarnContext(ctx, "purging expired token revocations", "error", err)
	}
	return nil
}

// IsRevoked reports whether jti is on the revocation list.
func (s *Tokens) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = ?)`, jti,
	).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return revoked, nil
}
