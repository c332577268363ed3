package workday

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"15/07/2024", "2024-07-15", true},
		{"5/7/2024", "2024-07-05", true},
		{"2024-07-15", "2024-07-15", true},
		{" 2024-7-5 ", "2024-07-05", true},
		{"31/02/2024", "", false},
		{"2024", "", false},
		{"15.07.2024", "", false},
		{"07/2024", "", false},
		{"", "", false},
		{"aa/bb/cccc", "", false},
		{"+024-07-01", "", false},
		{"-1/07/2024", "", false},
		{"15/+7/2024", "", false},
		{"15/07/ 2024", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := NormalizeDate(tc.in)
			if !tc.ok {
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMonthYear(t *testing.T) {
	m, y, err := MonthYear("03/11/2023")
	require.NoError(t, err)
	assert.Equal(t, 11, m)
	assert.Equal(t, 2023, y)

	_, _, err = MonthYear("bad")
	assert.Error(t, err)
}

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "05/07/2024", DisplayDate("2024-07-05"))
	assert.Equal(t, "garbage", DisplayDate("garbage"))
}

func TestClock(t *testing.T) {
	m, err := ParseClock("9:05")
	require.NoError(t, err)
	assert.Equal(t, 545, m)
	assert.Equal(t, "09:05", FormatClock(m))

	_, err = ParseClock("24:00")
	assert.ErrorIs(t, err, ErrInvalidTime)
	assert.False(t, IsClock("noon"))
}
