package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// NewService constructs a new Service. Sessions live for ttl.
func NewService(repo Repository, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, ttl: ttl, now: time.Now, logger: logger}
}

// Login verifies the credentials for the selected branch and opens a session.
// The returned session is read back from the store, so it reports the branch
// the session was opened for rather than the account's home branch.
func (s *Service) Login(ctx context.Context, req LoginRequest, ip, userAgent string) (*shared.Session, error) {
	username := strings.TrimSpace(req.Username)
	branchID := strings.TrimSpace(req.BranchID)
	if username == "" || req.Password == "" || branchID == "" {
		return nil, shared.NewUserError(shared.MsgMissingLogin)
	}

	account, err := s.repo.VerifyLogin(ctx, username, req.Password, branchID)
	if err != nil {
		return nil, err
	}

	token, err := s.repo.CreateSession(ctx, account.UserID, branchID, ip, userAgent, s.now().Add(s.ttl))
	if err != nil {
		return nil, err
	}

	record, err := s.repo.VerifySession(ctx, token)
	if err != nil {
		return nil, err
	}
	if record == nil || !record.Valid {
		return nil, shared.ErrSessionInvalid
	}

	s.logger.Info("login",
		slog.String("user_id", record.UserID),
		slog.String("role", record.Role),
		slog.String("branch_id", record.BranchID))

	return &shared.Session{
		UserID:     record.UserID,
		Name:       record.FullName,
		Role:       record.Role,
		BranchID:   record.BranchID,
		BranchName: record.BranchName,
		Token:      token,
	}, nil
}

// Logout invalidates the session behind token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.repo.InvalidateSession(ctx, token)
}

// CleanupExpired purges expired sessions and reports how many were removed.
func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.CleanupExpiredSessions(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("expired sessions removed", slog.Int64("count", n))
	}
	return n, nil
}
