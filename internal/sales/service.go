package sales

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/odyssey-erp/odyssey-stock/internal/rbac"
	"github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// BatchRecorder counts posted and failed lines.
type BatchRecorder interface {
	BatchLines(kind string, posted, failed int)
}

// Service posts sales batches.
type Service struct {
	repo     RepositoryPort
	messages *shared.ErrorTranslator
	validate *validator.Validate
	metrics  BatchRecorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs the sales service.
func NewService(repo RepositoryPort, messages *shared.ErrorTranslator, metrics BatchRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		messages: messages,
		validate: shared.NewValidator(),
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// PostSales posts each line in order once the whole batch validates. A line
// rejected by the database does not undo the lines before it.
func (s *Service) PostSales(ctx context.Context, sess *shared.Session, batch SaleBatch) (shared.BatchReport, error) {
	branch, err := rbac.ScopeBranch(rbac.ParseRole(sess.Role), sess.BranchID, batch.BranchID)
	if err != nil {
		return shared.BatchReport{}, err
	}
	if branch == "" {
		return shared.BatchReport{}, shared.NewUserError(shared.MsgBranchRequired)
	}
	if len(batch.Lines) == 0 || len(batch.Lines) > MaxBatchLines {
		return shared.BatchReport{}, shared.NewUserError(shared.MsgInvalidRequest)
	}
	clientID := strings.TrimSpace(batch.ClientID)
	if clientID != "" {
		if err := s.checkClient(ctx, clientID, branch); err != nil {
			return shared.BatchReport{}, err
		}
	}
	if lineErrs := shared.ValidateLines(s.validate, s.messages, batch.Lines); len(lineErrs) > 0 {
		return shared.RejectBatch(len(batch.Lines), lineErrs), nil
	}

	reference := strings.TrimSpace(batch.Reference)
	if reference == "" {
		reference = shared.NewReference("SAL", s.now())
	}

	report := shared.RunSequential(ctx, batch.Lines, func(ctx context.Context, _ int, line SaleLine) error {
		return s.repo.PostSale(ctx, SalePosting{
			BranchID:  branch,
			ClientID:  clientID,
			Line:      line,
			Reference: reference,
			UserID:    sess.UserID,
		})
	}, s.messages.SafeMessage)

	if s.metrics != nil {
		s.metrics.BatchLines("sale", report.Posted, report.Failed)
	}
	s.logger.Info("sales posted",
		slog.String("branch_id", branch),
		slog.String("reference", reference),
		slog.String("user_id", sess.UserID),
		slog.Int("posted", report.Posted),
		slog.Int("failed", report.Failed))
	return report, nil
}

// checkClient accepts only clients registered at the posting branch.
func (s *Service) checkClient(ctx context.Context, clientID, branch string) error {
	if _, err := uuid.Parse(clientID); err != nil {
		return shared.NewUserError(shared.MsgFieldInvalid, "client_id")
	}
	clientBranch, err := s.repo.ClientBranch(ctx, clientID)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewUserError(shared.MsgFieldInvalid, "client_id")
	}
	if err != nil {
		return err
	}
	if clientBranch != branch {
		return shared.NewUserError(shared.MsgBranchMismatch)
	}
	return nil
}
