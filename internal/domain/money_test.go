package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cents, err := ParseAmount("40.00")
	require.NoError(t, err)
	assert.Equal(t, int64(4000), cents)

	cents, err = ParseAmount("0.01")
	require.NoError(t, err)
	assert.Equal(t, int64(1), cents)

	cents, err = ParseAmount("100")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), cents)
}

func TestParseAmount_Rejects(t *testing.T) {
	cases := []string{"0", "0.00", "-5", "-0.01", "abc", "", "1.005"}
	for _, in := range cases {
		_, err := ParseAmount(in)
		require.Error(t, err, "input %q", in)
		assert.Equal(t, KindInvalidInput, KindOf(err))
	}
}

func TestParseAmount_RejectsOutOfRange(t *testing.T) {
	// Values whose cent representation exceeds int64 must fail outright, not
	// wrap to a smaller positive number.
	cases := []string{
		"200000000000000000.00",
		"92233720368547758.08", // math.MaxInt64 cents + 1
		"99999999999999999999",
		"-200000000000000000.00",
	}
	for _, in := range cases {
		cents, err := ParseAmount(in)
		require.Error(t, err, "input %q parsed to %d", in, cents)
		assert.Equal(t, KindInvalidInput, KindOf(err))
	}

	// The largest representable amount still parses exactly.
	cents, err := ParseAmount("92233720368547758.07")
	require.NoError(t, err)
	assert.Equal(t, int64(9223372036854775807), cents)
}

func TestParseBalance(t *testing.T) {
	cents, err := ParseBalance("100.00")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), cents)

	// Zero is a valid opening balance, unlike a transfer amount.
	cents, err = ParseBalance("0")
	require.NoError(t, err)
	assert.Equal(t, int64(0), cents)

	cents, err = ParseBalance("")
	require.NoError(t, err)
	assert.Equal(t, int64(0), cents)

	_, err = ParseBalance("-1")
	require.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "40.00", FormatAmount(4000))
	assert.Equal(t, "0.01", FormatAmount(1))
	assert.Equal(t, "1050.50", FormatAmount(105050))
	assert.Equal(t, "0.00", FormatAmount(0))
}
