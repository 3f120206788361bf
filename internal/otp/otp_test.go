package otp

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssue_CodeShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		challenge, err := Issue()
		require.NoError(t, err)

		assert.Len(t, challenge.Code, 6)
		n, err := strconv.Atoi(challenge.Code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)

		assert.Equal(t, HashCode(challenge.Code), challenge.Hash)
		assert.WithinDuration(t, time.Now().Add(TTL), challenge.ExpiresAt, time.Second)
	}
}

func TestVerify_MatchesIssuedCode(t *testing.T) {
	challenge, err := Issue()
	require.NoError(t, err)

	assert.True(t, Verify(challenge.Code, challenge.Hash))
	assert.False(t, Verify("000000", challenge.Hash))
}

func TestVerify_MalformedInput(t *testing.T) {
	challenge, err := Issue()
	require.NoError(t, err)

	assert.False(t, Verify("", challenge.Hash))
	assert.False(t, Verify(challenge.Code, ""))
	assert.False(t, Verify(challenge.Code, "not-hex!"))
	assert.False(t, Verify(challenge.Code, "abcd"))
}

func TestHashCode_Deterministic(t *testing.T) {
	assert.Equal(t, HashCode("123456"), HashCode("123456"))
	assert.NotEqual(t, HashCode("123456"), HashCode("123457"))
}
