package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverterParse(t *testing.T) {
	conv, err := NewConverter(18)
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   string
		want    Amount
		wantErr bool
	}{
		{"one tenth", "0.1", 100000000000000000, false},
		{"whole unit", "1", 1000000000000000000, false},
		{"zero", "0", 0, false},
		{"sum of options", "0.25", 250000000000000000, false},
		{"negative", "-0.1", 0, true},
		{"garbage", "abc", 0, true},
		{"too precise", "0.0000000000000000001", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := conv.Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConverterFormat(t *testing.T) {
	conv, err := NewConverter(18)
	require.NoError(t, err)

	assert.Equal(t, "0.1", conv.Format(100000000000000000))
	assert.Equal(t, "2.3", conv.Format(2300000000000000000))
	assert.Equal(t, "0", conv.Format(0))
}

func TestConverterRoundTrip(t *testing.T) {
	conv, err := NewConverter(2)
	require.NoError(t, err)

	a, err := conv.Parse("19.99")
	require.NoError(t, err)
	assert.Equal(t, Amount(1999), a)
	assert.Equal(t, "19.99", conv.Format(a))
}

func TestNewConverterRejectsBadDecimals(t *testing.T) {
	_, err := NewConverter(-1)
	assert.Error(t, err)
	_, err = NewConverter(19)
	assert.Error(t, err)
}

func TestPercentAtLargeAmounts(t *testing.T) {
	const twoUnits = Amount(2000000000000000000)

	// the naive a*pct product overflows int64 here
	assert.Equal(t, Amount(1000000000000000000), Percent(twoUnits, 50))
	assert.Equal(t, Amount(40000000000000000), Percent(twoUnits, 2))
	assert.Equal(t, twoUnits, Percent(twoUnits, 100))
	assert.Equal(t, Amount(0), Percent(twoUnits, 0))
	assert.Equal(t, Amount(33), Percent(101, 33))
}

func TestAddDetectsOverflow(t *testing.T) {
	sum, err := Add(1, 2)
	require.NoError(t, err)
	assert.Equal(t, Amount(3), sum)

	const max = Amount(9223372036854775807)
	_, err = Add(max, 1)
	assert.ErrorIs(t, err, ErrOverflow)
	_, err = Add(8000000000000000000, 2000000000000000000)
	assert.ErrorIs(t, err, ErrOverflow)
}
