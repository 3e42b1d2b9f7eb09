package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSRFTokenBoundToSession(t *testing.T) {
	m := NewCSRFManager("secret")
	sess := &Session{Token: "session-a"}

	token, err := m.Token(sess)
	require.NoError(t, err)
	assert.NoError(t, m.VerifyToken(sess, token))
	assert.ErrorIs(t, m.VerifyToken(&Session{Token: "session-b"}, token), ErrCSRFTokenMismatch)
	assert.ErrorIs(t, m.VerifyToken(sess, ""), ErrCSRFTokenMissing)

	_, err = m.Token(&Session{})
	assert.ErrorIs(t, err, ErrCSRFTokenMissing)

	other, err := NewCSRFManager("other").Token(sess)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}
