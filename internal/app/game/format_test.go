package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatIntake(t *testing.T) {
	cases := []struct {
		amountMl int64
		want     string
	}{
		{0, "0 ml"},
		{1, "1 ml"},
		{500, "500 ml"},
		{999, "999 ml"},
		{1000, "1 L"},
		{1500, "1 L 500 ml"},
		{2000, "2 L"},
		{2001, "2 L 1 ml"},
		{12345, "12 L 345 ml"},
	}

	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatIntake(tc.amountMl))
		})
	}
}

// The formatted string must recombine to the original amount:
// liters*1000 + milliliters == input, for any non-negative input.
func TestFormatIntakeRoundTrip(t *testing.T) {
	amounts := []int64{0, 1, 999, 1000, 1001, 1999, 2000, 12345, 999999, 1000000}
	for i := int64(0); i < 3000; i += 7 {
		amounts = append(amounts, i)
	}

	for _, amount := range amounts {
		formatted := FormatIntake(amount)

		var liters, milliliters int64
		switch {
		case scanMatch(formatted, "%d L %d ml", &liters, &milliliters):
		case scanMatch(formatted, "%d L", &liters):
		case scanMatch(formatted, "%d ml", &milliliters):
		default:
			t.Fatalf("unparseable format %q for %d", formatted, amount)
		}

		require.Equal(t, amount, liters*1000+milliliters,
			"format %q does not recombine to %d", formatted, amount)
	}
}

// scanMatch scans formatted against the printf-style layout and reports
// whether the whole string was consumed.
func scanMatch(formatted, layout string, dst ...any) bool {
	// Sscanf writes partial results before failing on a literal mismatch;
	// scan into temporaries so a failed match leaves dst untouched.
	tmp := make([]any, len(dst))
	for i := range tmp {
		tmp[i] = new(int64)
	}
	n, err := fmt.Sscanf(formatted, layout, tmp...)
	if err != nil || n != len(tmp) {
		return false
	}
	// Sscanf tolerates trailing input; rebuild to make the match exact.
	if fmt.Sprintf(layout, toAnySlice(tmp)...) != formatted {
		return false
	}
	for i, p := range dst {
		*(p.(*int64)) = *(tmp[i].(*int64))
	}
	return true
}

func toAnySlice(ptrs []any) []any {
	vals := make([]any, len(ptrs))
	for i, p := range ptrs {
		vals[i] = *(p.(*int64))
	}
	return vals
}
