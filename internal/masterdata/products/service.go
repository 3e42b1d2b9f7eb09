package products

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/odyssey-erp/odyssey-stock/internal/masterdata/shared"
	internalShared "github.com/odyssey-erp/odyssey-stock/internal/shared"
)

// BatchRecorder counts imported and rejected rows.
type BatchRecorder interface {
	BatchLines(kind string, posted, failed int)
}

type Service struct {
	repo        Repository
	messages    *internalShared.ErrorTranslator
	validate    *validator.Validate
	concurrency int
	metrics     BatchRecorder
	logger      *slog.Logger
}

// ServiceConfig tunes the import.
type ServiceConfig struct {
	ImportConcurrency int
	Messages          *internalShared.ErrorTranslator
	Metrics           BatchRecorder
	Logger            *slog.Logger
}

func NewService(repo Repository, cfg ServiceConfig) *Service {
	if cfg.ImportConcurrency < 1 {
		cfg.ImportConcurrency = 4
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Service{
		repo:        repo,
		messages:    cfg.Messages,
		validate:    internalShared.NewValidator(),
		concurrency: cfg.ImportConcurrency,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
	}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Save(ctx context.Context, form ProductForm) (Product, error) {
	p := form.toProduct()
	if err := s.check(p); err != nil {
		return Product{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
		if err := s.repo.Create(ctx, p); err != nil {
			return Product{}, err
		}
		return p, nil
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return internalShared.NewUserError(internalShared.MsgFieldInvalid, "id")
	}
	return s.repo.Delete(ctx, id)
}

// Import validates every row first and imports nothing when a row is
// invalid. Valid batches are upserted by SKU with bounded concurrency; a
// failing row does not stop the others.
func (s *Service) Import(ctx context.Context, rows []ProductForm) internalShared.BatchReport {
	if lineErrs := s.validateRows(rows); len(lineErrs) > 0 {
		return internalShared.RejectBatch(len(rows), lineErrs)
	}
	report := internalShared.RunConcurrent(ctx, rows, s.concurrency, func(ctx context.Context, line int, form ProductForm) error {
		p := form.toProduct()
		p.ID = uuid.NewString()
		return s.repo.UpsertBySKU(ctx, p)
	}, s.messages.SafeMessage)

	if s.metrics != nil {
		s.metrics.BatchLines("product_import", report.Posted, report.Failed)
	}
	s.logger.Info("product import",
		slog.Int("total", report.Total),
		slog.Int("imported", report.Posted),
		slog.Int("failed", report.Failed))
	return report
}

// validateRows runs the tag rules and then the same checks as Save on every
// row, so values that only trim to empty are caught before anything is sent.
func (s *Service) validateRows(rows []ProductForm) []internalShared.LineError {
	lineErrs := internalShared.ValidateLines(s.validate, s.messages, rows)
	reported := make(map[int]bool, len(lineErrs))
	for _, le := range lineErrs {
		reported[le.Line] = true
	}
	for i, form := range rows {
		if reported[i+1] {
			continue
		}
		if err := s.check(form.toProduct()); err != nil {
			lineErrs = append(lineErrs, s.rowError(i+1, err))
		}
	}
	slices.SortFunc(lineErrs, func(a, b internalShared.LineError) int {
		return cmp.Compare(a.Line, b.Line)
	})
	return lineErrs
}

func (s *Service) rowError(line int, err error) internalShared.LineError {
	var userErr *internalShared.UserError
	if errors.As(err, &userErr) && len(userErr.Args) == 1 {
		key := internalShared.MsgLineInvalid
		if userErr.Key == internalShared.MsgFieldRequired {
			key = internalShared.MsgLineRequired
		}
		return internalShared.LineError{Line: line, Message: s.messages.Text(key, line, userErr.Args[0])}
	}
	return internalShared.LineError{Line: line, Message: s.messages.SafeMessage(err)}
}
