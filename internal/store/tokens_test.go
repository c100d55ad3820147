package store

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/erazemk/shramba/internal/db"
)

func TestRevokeAndCheckToken(t *testing.T) {
	s := &Tokens{DB: db.NewTestDB(t)}
	ctx := context.Background()

	revoked, err := s.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if revoked {
		t.Error("expected token not to be revoked")
	}

	if err := s.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	// Revoking twice is a no-op.
	if err := s.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("second Revoke: %v", err)
	}

	if revoked, _ := s.IsRevoked(ctx, "jti-1"); !revoked {
		t.Error("expected token to be revoked")
	}
	if revoked, _ := s.IsRevoked(ctx, "jti-2"); revoked {
		t.Error("expected different token not to be revoked")
	}
}

func TestRevokePurgesExpired(t *testing.T) {
	s := &Tokens{DB: db.NewTestDB(t)}
	ctx := context.Background()

	s.Revoke(ctx, "old", time.Now().Add(-time.Hour))
	s.Revoke(ctx, "new", time.Now().Add(time.Hour))

	if revoked, _ := s.IsRevoked(ctx, "old"); revoked {
		t.Error("expected expired revocation to be purged")
	}
}

func TestRevokeLogsFailedPurge(t *testing.T) {
	database := db.NewTestDB(t)
	s := &Tokens{DB: database}
	ctx := context.Background()

	if _, err := database.Exec(`CREATE TRIGGER block_purge BEFORE DELETE ON revoked_tokens
		BEGIN SELECT RAISE(ABORT, 'purge blocked'); END`); err != nil {
		t.Fatalf("creating trigger: %v", err)
	}
	if _, err := database.Exec(`INSERT INTO revoked_tokens (jti, expires_at) VALUES ('old', ?)`,
		db.FormatTime(time.Now().Add(-time.Hour))); err != nil {
		t.Fatalf("inserting expired revocation: %v", err)
	}

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	if err := s.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if revoked, _ := s.IsRevoked(ctx, "jti-1"); !revoked {
		t.Error("expected token to be revoked despite failed purge")
	}
	if !strings.Contains(buf.String(), "purging expired token revocations") {
		t.Errorf("expected purge failure to be logged, got %q", buf.String())
	}
}
