package auth

import (
	"context"
	"errors"
	"net/netip"
	"time"

	"github.com/odyssey-erp/odyssey-stock/internal/platform/db"
	"github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// Repository defines the session procedures the auth module relies on.
type Repository interface {
	shared.SessionVerifier
	VerifyLogin(ctx context.Context, username, password, branchID string) (*Account, error)
	CreateSession(ctx context.Context, userID, branchID, ip, userAgent string, expiresAt time.Time) (string, error)
	InvalidateSession(ctx context.Context, token string) error
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}

// PGRepository implements Repository with PostgreSQL stored procedures.
type PGRepository struct {
	db db.Querier
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(q db.Querier) *PGRepository {
	return &PGRepository{db: q}
}

// VerifyLogin checks credentials and branch membership. Any mismatch is
// reported as shared.ErrInvalidCredentials.
func (r *PGRepository) VerifyLogin(ctx context.Context, username, password, branchID string) (*Account, error) {
	row, err := db.CallOne[loginRow](ctx, r.db, "verify_login", username, password, branchID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if !row.Success || row.UserID == nil {
		return nil, shared.ErrInvalidCredentials
	}
	return &Account{
		UserID:     str(row.UserID),
		FullName:   str(row.FullName),
		Role:       str(row.Role),
		BranchID:   str(row.BranchID),
		BranchName: str(row.BranchName),
	}, nil
}

// CreateSession stores a new server-side session and returns its token.
func (r *PGRepository) CreateSession(ctx context.Context, userID, branchID, ip, userAgent string, expiresAt time.Time) (string, error) {
	row, err := db.CallOne[tokenRow](ctx, r.db, "create_session", userID, nullable(branchID), clientAddr(ip), userAgent, expiresAt.UTC())
	if err != nil {
		return "", err
	}
	if row.Token == "" {
		return "", errors.New("auth: create_session returned an empty token")
	}
	return row.Token, nil
}

// VerifySession implements shared.SessionVerifier.
func (r *PGRepository) VerifySession(ctx context.Context, token string) (*shared.SessionRecord, error) {
	row, err := db.CallOne[sessionRow](ctx, r.db, "verify_session", token)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrSessionInvalid
		}
		return nil, err
	}
	if !row.Valid {
		return nil, shared.ErrSessionInvalid
	}
	record := &shared.SessionRecord{
		Valid:      true,
		UserID:     str(row.UserID),
		FullName:   str(row.FullName),
		Role:       str(row.Role),
		BranchID:   str(row.BranchID),
		BranchName: str(row.BranchName),
	}
	if row.ExpiresAt != nil {
		record.ExpiresAt = *row.ExpiresAt
	}
	return record, nil
}

// InvalidateSession flips the session's validity flag.
func (r *PGRepository) InvalidateSession(ctx context.Context, token string) error {
	return db.CallResult(ctx, r.db, "invalidate_session", token)
}

// CleanupExpiredSessions removes expired and invalidated sessions.
func (r *PGRepository) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	row, err := db.CallOne[cleanupRow](ctx, r.db, "cleanup_expired_sessions")
	if err != nil {
		return 0, err
	}
	return row.Deleted, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// clientAddr keeps only a parseable address; the column is inet.
func clientAddr(ip string) *string {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return nil
	}
	s := addr.String()
	return &s
}

var _ Repository = (*PGRepository)(nil)
