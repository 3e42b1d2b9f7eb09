package procurement

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/odyssey-stock/internal/rbac"
	"github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// BatchRecorder counts posted and failed lines.
type BatchRecorder interface {
	BatchLines(kind string, posted, failed int)
}

// Service orchestrates purchase postings.
type Service struct {
	repo     RepositoryPort
	messages *shared.ErrorTranslator
	validate *validator.Validate
	metrics  BatchRecorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs the procurement service.
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

// PostPurchases validates the whole batch and posts nothing if any line is
// invalid. Otherwise lines are posted in order; a failing line does not stop
// the rest and lines already posted stay posted.
func (s *Service) PostPurchases(ctx context.Context, sess *shared.Session, batch PurchaseBatch) (shared.BatchReport, error) {
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
	if lineErrs := shared.ValidateLines(s.validate, s.messages, batch.Lines); len(lineErrs) > 0 {
		return shared.RejectBatch(len(batch.Lines), lineErrs), nil
	}

	supplier := strings.TrimSpace(batch.Supplier)
	reference := strings.TrimSpace(batch.Reference)
	if reference == "" {
		reference = shared.NewReference("PUR", s.now())
	}

	report := shared.RunSequential(ctx, batch.Lines, func(ctx context.Context, _ int, line PurchaseLine) error {
		return s.repo.PostPurchase(ctx, PurchasePosting{
			BranchID:  branch,
			Line:      line,
			Supplier:  supplier,
			Reference: reference,
			UserID:    sess.UserID,
		})
	}, s.messages.SafeMessage)

	if s.metrics != nil {
		s.metrics.BatchLines("purchase", report.Posted, report.Failed)
	}
	s.logger.Info("purchases posted",
		slog.String("branch_id", branch),
		slog.String("reference", reference),
		slog.String("user_id", sess.UserID),
		slog.Int("posted", report.Posted),
		slog.Int("failed", report.Failed))
	return report, nil
}
