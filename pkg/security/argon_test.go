package security

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArgonHashAndVerify(t *testing.T) {
	t.Parallel()

	a := NewArgon()

	hash, err := a.GenerateFromPassword("correct horse battery staple")
	require.NoError(t, err)

	ok, err := a.VerifyPasswd("correct horse battery staple", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = a.VerifyPasswd("wrong password", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestArgonHashIsSalted(t *testing.T) {
	t.Parallel()

	a := NewArgon()

	h1, err := a.GenerateFromPassword("pw")
	require.NoError(t, err)

	h2, err := a.GenerateFromPassword("pw")
	require.NoError(t, err)

	require.NotEqual(t, h1, h2)

	// Both still verify despite differing salts
	for _, h := range []string{h1, h2} {
		ok, err := a.VerifyPasswd("pw", h)
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestArgonVerifyBadEncoding(t *testing.T) {
	t.Parallel()

	a := NewArgon()

	_, err := a.VerifyPasswd("pw", "not a phc string")
	require.Error(t, err)
}
