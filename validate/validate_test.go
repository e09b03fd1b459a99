package validate

import (
	"testing"
	"time"

	"github.com/dpup/authkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func auth() authkit.Authenticator {
	return authkit.NewAuthenticator("cred", authkit.LoginInfo{Provider: "acme", UserID: "u"})
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
}

func TestExpirationValidator(t *testing.T) {
	v := Expiration{Now: fixedNow}

	t.Run("no expiry is always valid", func(t *testing.T) {
		assert.True(t, v.Validate(auth()).IsValid())
	})

	t.Run("expiring exactly now is valid", func(t *testing.T) {
		assert.True(t, v.Validate(auth().WithExpiry(fixedNow())).IsValid())
	})

	t.Run("future expiry is valid", func(t *testing.T) {
		assert.True(t, v.Validate(auth().WithExpiry(fixedNow().Add(time.Hour))).IsValid())
	})

	t.Run("one millisecond past is invalid", func(t *testing.T) {
		status := v.Validate(auth().WithExpiry(fixedNow().Add(-time.Millisecond)))
		require.False(t, status.IsValid())
		require.Len(t, status.Reasons, 1)
		assert.Contains(t, status.Reasons[0], "1ms")
	})
}

func TestFingerprintValidator(t *testing.T) {
	v := Fingerprint{Expected: "fp-expected"}

	t.Run("unbound authenticator passes", func(t *testing.T) {
		assert.True(t, v.Validate(auth()).IsValid())
	})

	t.Run("matching fingerprint passes", func(t *testing.T) {
		assert.True(t, v.Validate(auth().WithFingerprint("fp-expected")).IsValid())
	})

	t.Run("mismatch names both values", func(t *testing.T) {
		status := v.Validate(auth().WithFingerprint("fp-actual"))
		require.False(t, status.IsValid())
		require.Len(t, status.Reasons, 1)
		assert.Contains(t, status.Reasons[0], "fp-expected")
		assert.Contains(t, status.Reasons[0], "fp-actual")
	})

	t.Run("comparison is case sensitive", func(t *testing.T) {
		status := v.Validate(auth().WithFingerprint("FP-EXPECTED"))
		assert.False(t, status.IsValid())
	})
}

func TestChainAccumulatesAllReasons(t *testing.T) {
	chain := Chain{
		Expiration{Now: fixedNow},
		Fingerprint{Expected: "fp-expected"},
	}

	a := auth().
		WithExpiry(fixedNow().Add(-time.Minute)).
		WithFingerprint("fp-wrong")

	status := chain.Validate(a)
	require.False(t, status.IsValid())
	assert.Len(t, status.Reasons, 2)
}

func TestChainCheck(t *testing.T) {
	chain := Chain{Fingerprint{Expected: "fp"}}

	require.NoError(t, chain.Check(auth()))

	err := chain.Check(auth().WithFingerprint("other"))
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Len(t, rejected.Reasons, 1)
}

func TestEmptyChainAccepts(t *testing.T) {
	assert.True(t, Chain{}.Validate(auth()).IsValid())
	assert.NoError(t, Chain{}.Check(auth()))
}
