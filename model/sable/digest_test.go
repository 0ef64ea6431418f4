package sable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sablelabs/sable-client-go/model/sable"
	"github.com/sablelabs/sable-client-go/utils/unittest"
)

func TestDigestHexRoundTrip(t *testing.T) {
	expected := unittest.DigestFixture()

	actual, err := sable.HexToDigest(expected.String())
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
}

func TestDigestHexInvalid(t *testing.T) {
	_, err := sable.HexToDigest("zzzz")
	require.Error(t, err)

	// valid hex, wrong length
	_, err = sable.HexToDigest("beef")
	require.Error(t, err)
}

func TestDigestTextRoundTrip(t *testing.T) {
	expected := unittest.DigestFixture()

	text, err := expected.MarshalText()
	require.NoError(t, err)

	var actual sable.Digest
	err = actual.UnmarshalText(text)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
}
