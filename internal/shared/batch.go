package shared

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// LineError describes one rejected batch line. Lines are numbered from 1.
type LineError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// BatchReport summarises a batch posting.
type BatchReport struct {
	Total  int         `json:"total"`
	Posted int         `json:"posted"`
	Failed int         `json:"failed"`
	Errors []LineError `json:"errors,omitempty"`

	// Rejected is set when validation failed and no line was sent.
	Rejected bool `json:"rejected,omitempty"`
}

// RejectBatch reports a batch refused before any line was posted.
func RejectBatch(total int, errs []LineError) BatchReport {
	return BatchReport{Total: total, Failed: len(errs), Errors: errs, Rejected: true}
}

// NewReference builds a batch reference such as PUR-20240309-1A2B3C4D.
func NewReference(prefix string, now time.Time) string {
	return prefix + "-" + now.UTC().Format("20060102") + "-" + strings.ToUpper(uuid.NewString()[:8])
}

// OK reports whether every line was posted.
func (r BatchReport) OK() bool {
	return r.Failed == 0 && r.Posted == r.Total
}

// PostFunc posts a single batch line.
type PostFunc[T any] func(ctx context.Context, line int, item T) error

// RunSequential posts items one by one, in order, and keeps going after a
// failure. Lines posted before a failing line stay posted.
func RunSequential[T any](ctx context.Context, items []T, post PostFunc[T], describe func(error) string) BatchReport {
	report := BatchReport{Total: len(items)}
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			report.fail(i+1, describe(err))
			continue
		}
		if err := post(ctx, i+1, item); err != nil {
			report.fail(i+1, describe(err))
			continue
		}
		report.Posted++
	}
	return report
}

// RunConcurrent posts independent items with at most limit calls in flight.
// Errors are reported per line in input order.
func RunConcurrent[T any](ctx context.Context, items []T, limit int, post PostFunc[T], describe func(error) string) BatchReport {
	if limit < 1 {
		limit = 1
	}
	results := make([]error, len(items))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = err
				return nil
			}
			results[i] = post(ctx, i+1, item)
			return nil
		})
	}
	_ = g.Wait()

	report := BatchReport{Total: len(items)}
	for i, err := range results {
		if err != nil {
			report.fail(i+1, describe(err))
			continue
		}
		report.Posted++
	}
	return report
}

func (r *BatchReport) fail(line int, message string) {
	r.Failed++
	r.Errors = append(r.Errors, LineError{Line: line, Message: message})
}

// NewValidator returns a validator that reports fields by their json name.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// ValidateLines validates every item and returns one error per offending line.
func ValidateLines[T any](v *validator.Validate, t *ErrorTranslator, items []T) []LineError {
	var out []LineError
	for i, item := range items {
		err := v.Struct(item)
		if err == nil {
			continue
		}
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
			out = append(out, LineError{Line: i + 1, Message: t.Text(MsgInvalidValue)})
			continue
		}
		fe := fieldErrs[0]
		key := MsgLineInvalid
		if fe.Tag() == "required" {
			key = MsgLineRequired
		}
		out = append(out, LineError{Line: i + 1, Message: t.Text(key, i+1, fe.Field())})
	}
	return out
}

// ValidationMessage converts a validator error on a single struct into a
// safe message naming the first offending field.
func ValidationMessage(t *ErrorTranslator, err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		if fieldErrs[0].Tag() == "required" {
			return t.Text(MsgRequired) + " (" + fieldErrs[0].Field() + ")"
		}
		return t.Text(MsgInvalidValue) + " (" + fieldErrs[0].Field() + ")"
	}
	return t.Text(MsgInvalidValue)
}
