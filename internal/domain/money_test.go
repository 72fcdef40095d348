package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "69.98", want: 6998},
		{in: "70", want: 7000},
		{in: "69.9", want: 6990},
		{in: "0.01", want: 1},
		{in: ".50", want: 50},
		{in: "-12.34", want: -1234},
		{in: " 34.99 ", want: 3499},
		{in: "", wantErr: true},
		{in: "69.987", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "12.x9", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseCents(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "69.98", FormatCents(6998))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "70.00", FormatCents(7000))
	assert.Equal(t, "-12.34", FormatCents(-1234))
}

func TestCentsWithin(t *testing.T) {
	assert.True(t, CentsWithin(6998, 6998, 1))
	assert.True(t, CentsWithin(6998, 6997, 1))
	assert.True(t, CentsWithin(6997, 6998, 1))
	assert.False(t, CentsWithin(6998, 6996, 1))
	assert.False(t, CentsWithin(6998, 6000, 1))
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 6998, 123456789} {
		got, err := ParseCents(FormatCents(cents))
		require.NoError(t, err)
		assert.Equal(t, cents, got)
	}
}
