package inventory

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/odyssey-stock/internal/rbac"
	"github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// BatchRecorder counts posted and failed lines.
type BatchRecorder interface {
	BatchLines(kind string, posted, failed int)
}

// Service coordinates inventory operations.
type Service struct {
	repo     RepositoryPort
	messages *shared.ErrorTranslator
	validate *validator.Validate
	metrics  BatchRecorder
	logger   *slog.Logger
}

// NewService builds Service.
func NewService(repo RepositoryPort, messages *shared.ErrorTranslator, metrics BatchRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, messages: messages, validate: shared.NewValidator(), metrics: metrics, logger: logger}
}

// Status lists stock for the caller's effective branch. Branch roles always
// see their own branch whatever they request.
func (s *Service) Status(ctx context.Context, sess *shared.Session, requested string) (StatusReport, error) {
	branch, err := rbac.ScopeBranch(rbac.ParseRole(sess.Role), sess.BranchID, requested)
	if err != nil {
		return StatusReport{}, err
	}
	items, err := s.repo.InventoryStatus(ctx, branch)
	if err != nil {
		return StatusReport{}, err
	}
	if items == nil {
		items = []StockStatus{}
	}
	return StatusReport{BranchID: branch, Items: items, Summary: summarize(items)}, nil
}

// PostAdjustments validates every line, then posts them one by one. Lines
// posted before a failing line are not rolled back.
func (s *Service) PostAdjustments(ctx context.Context, sess *shared.Session, batch AdjustmentBatch) (shared.BatchReport, error) {
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
	lines := make([]AdjustmentLine, len(batch.Lines))
	for i, line := range batch.Lines {
		line.Reason = strings.TrimSpace(line.Reason)
		lines[i] = line
	}
	if lineErrs := shared.ValidateLines(s.validate, s.messages, lines); len(lineErrs) > 0 {
		return shared.RejectBatch(len(lines), lineErrs), nil
	}

	report := shared.RunSequential(ctx, lines, func(ctx context.Context, _ int, line AdjustmentLine) error {
		return s.repo.AdjustInventory(ctx, branch, line, sess.UserID)
	}, s.messages.SafeMessage)

	if s.metrics != nil {
		s.metrics.BatchLines("adjustment", report.Posted, report.Failed)
	}
	s.logger.Info("adjustments posted",
		slog.String("branch_id", branch),
		slog.String("user_id", sess.UserID),
		slog.Int("posted", report.Posted),
		slog.Int("failed", report.Failed))
	return report, nil
}
