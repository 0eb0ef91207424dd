package hasher

import (
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T) *Bcrypt {
	t.Helper()
	h, err := New(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func TestNew_RejectsBadCost(t *testing.T) {
	for _, cost := range []int{0, 3, 32} {
		_, err := New(cost)
		require.Error(t, err, "cost %d", cost)
		assert.ErrorIs(t, err, common.ErrConfiguration)
	}
}

func TestNew_DefaultCost(t *testing.T) {
	h, err := New(DefaultCost)
	require.NoError(t, err)
	assert.Equal(t, 10, h.Cost())

	hash, err := h.Hash("1234")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, cost)
}

func TestHash_RoundTrip(t *testing.T) {
	t.Parallel()
	h := newTestHasher(t)

	for _, secret := range []string{"1234", "000000", "9", ""} {
		hash, err := h.Hash(secret)
		require.NoError(t, err)
		assert.NotEqual(t, secret, hash)
		assert.True(t, h.Verify(secret, hash), "secret %q must verify", secret)
	}
}

func TestHash_IsSalted(t *testing.T) {
	t.Parallel()
	h := newTestHasher(t)

	a, err := h.Hash("1234")
	require.NoError(t, err)
	b, err := h.Hash("1234")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "salt must be randomized per call")
	assert.True(t, h.Verify("1234", a))
	assert.True(t, h.Verify("1234", b))
}

func TestVerify_Mismatch(t *testing.T) {
	t.Parallel()
	h := newTestHasher(t)

	hash, err := h.Hash("1234")
	require.NoError(t, err)

	assert.False(t, h.Verify("0000", hash))
	assert.False(t, h.Verify("12345", hash))
}

func TestVerify_MalformedHashNeverPanics(t *testing.T) {
	t.Parallel()
	h := newTestHasher(t)

	for _, bad := range []string{"", "plain", "$2a$", "$2a$10$short", "$argon2id$v=19$m=1,t=1,p=1$AAAA$BBBB"} {
		assert.NotPanics(t, func() {
			assert.False(t, h.Verify("1234", bad))
		})
	}
}

func TestBurn_DoesNotPanic(t *testing.T) {
	h := newTestHasher(t)
	assert.NotPanics(t, func() { h.Burn("1234") })
}
