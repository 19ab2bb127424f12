package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("pass123")
	require.NoError(t, err)
	assert.NotEqual(t, "pass123", hash)

	assert.NoError(t, h.Compare(hash, "pass123"))
	assert.ErrorIs(t, h.Compare(hash, "wrong"), ErrInvalidPassword)
	assert.ErrorIs(t, h.Compare("not-a-hash", "pass123"), ErrInvalidPassword)
}

func TestBcryptHasher_EmptyPassword(t *testing.T) {
	_, err := NewBcryptHasher(bcrypt.MinCost).Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}
