package shared

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestSafeMessageMapsKnownErrors(t *testing.T) {
	tr := NewErrorTranslator("en", false)

	cases := []struct {
		name string
		err  error
		want string
	}{
		{"user error", NewUserError(MsgLineRequired, 4, "product_id"), "line 4: product_id is required"},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), MsgTimeout},
		{"credentials", ErrInvalidCredentials, MsgInvalidCredentials},
		{"no branch", ErrNoBranchScope, MsgNoBranch},
		{"not found", fmt.Errorf("load: %w", ErrNotFound), MsgNotFound},
		{"unique", &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint \"products_sku_key\""}, MsgDuplicate},
		{"fk", &pgconn.PgError{Code: "23503"}, MsgForeignKey},
		{"procedure", &Rejected{Procedure: "process_sale_with_fifo", Message: "Insufficient stock for product P1"}, MsgInsufficientStock},
		{"unknown", errors.New("relation \"secret_table\" does not exist"), MsgGeneric},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tr.SafeMessage(tc.err))
		})
	}
}

func TestSafeMessageExposesRawInDevelopment(t *testing.T) {
	tr := NewErrorTranslator("en", true)
	assert.Equal(t, "boom", tr.SafeMessage(errors.New("boom")))
	assert.Empty(t, tr.SafeMessage(nil))
}

func TestSpanishCatalog(t *testing.T) {
	tr := NewErrorTranslator("es-AR", false)
	assert.Equal(t, "Stock insuficiente para esta operación.", tr.SafeMessage(errors.New("insufficient stock")))
	assert.Equal(t, "línea 2: quantity es obligatorio", tr.Text(MsgLineRequired, 2, "quantity"))
}

func TestUnknownLanguageFallsBackToEnglish(t *testing.T) {
	tr := NewErrorTranslator("not a tag", false)
	assert.Equal(t, MsgForbidden, tr.Text(MsgForbidden))

	var nilTr *ErrorTranslator
	assert.Equal(t, MsgSaved, nilTr.Text(MsgSaved))
	assert.Equal(t, MsgGeneric, UserSafeMessage(errors.New("pq: internal")))
}
