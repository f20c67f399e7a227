package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    *float64
		wantErr bool
	}{
		{in: "", want: nil},
		{in: "   ", want: nil},
		{in: "19", want: ptr(19)},
		{in: "19.5", want: ptr(19.5)},
		{in: "19,5", want: ptr(19.5)},
		{in: "1.234,50", want: ptr(1234.5)},
		{in: "1,234.50", want: ptr(1234.5)},
		{in: "-3", want: ptr(-3)},
		{in: "abc", wantErr: true},
		{in: "NaN", wantErr: true},
		{in: "Inf", wantErr: true},
		{in: "1e400", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNumber(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotANumber)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-03-01", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *got)

	got, err = ParseDate("", time.UTC)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseDate("01.03.2024", time.UTC)
	assert.ErrorIs(t, err, ErrNotADate)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "19.5", FormatNumber(19.5))
	assert.Equal(t, "100", FormatNumber(100))
	assert.Equal(t, "2024-03-01", FormatDate(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", FormatDate(time.Time{}))
}

func ptr(v float64) *float64 { return &v }
