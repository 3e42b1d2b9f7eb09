package shared

import (
	"context"
	"errors"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	ProductID string  `json:"product_id" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"gt=0"`
}

func TestValidateLinesReportsEveryBadLine(t *testing.T) {
	v := NewValidator()
	tr := NewErrorTranslator("en", false)
	items := []line{
		{ProductID: "P1", Quantity: 1},
		{ProductID: "", Quantity: 1},
		{ProductID: "P3", Quantity: 0},
	}
	errs := ValidateLines(v, tr, items)
	require.Len(t, errs, 2)
	assert.Equal(t, LineError{Line: 2, Message: "line 2: product_id is required"}, errs[0])
	assert.Equal(t, LineError{Line: 3, Message: "line 3: quantity is not valid"}, errs[1])
}

func TestRunSequentialContinuesAfterFailure(t *testing.T) {
	var posted []int
	report := RunSequential(context.Background(), []string{"a", "b", "c"}, func(ctx context.Context, n int, item string) error {
		if item == "b" {
			return errors.New("rejected")
		}
		posted = append(posted, n)
		return nil
	}, func(err error) string { return err.Error() })

	assert.Equal(t, []int{1, 3}, posted)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Posted)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []LineError{{Line: 2, Message: "rejected"}}, report.Errors)
	assert.False(t, report.OK())
}

func TestRunSequentialStopsPostingWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	report := RunSequential(ctx, []int{1, 2}, func(context.Context, int, int) error {
		calls++
		return nil
	}, func(err error) string { return "cancelled" })
	assert.Zero(t, calls)
	assert.Equal(t, 2, report.Failed)
}

func TestRunConcurrentRespectsLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	items := make([]int, 20)
	for i := range items {
		items[i] = i
	}
	report := RunConcurrent(context.Background(), items, 3, func(ctx context.Context, n int, item int) error {
		cur := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		if item%5 == 0 {
			return errors.New("bad")
		}
		return nil
	}, func(err error) string { return err.Error() })

	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.Equal(t, 16, report.Posted)
	require.Len(t, report.Errors, 4)
	assert.Equal(t, []int{1, 6, 11, 16}, []int{report.Errors[0].Line, report.Errors[1].Line, report.Errors[2].Line, report.Errors[3].Line})
}

func TestNewReference(t *testing.T) {
	at := time.Date(2024, 3, 9, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))
	ref := NewReference("PUR", at)
	assert.Regexp(t, regexp.MustCompile(`^PUR-20240310-[0-9A-F]{8}$`), ref)
	assert.NotEqual(t, ref, NewReference("PUR", at))
}
