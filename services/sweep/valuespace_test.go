package sweep

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixierungValues(t *testing.T) {
	for _, tc := range []struct {
		laufzeit int
		step     int
		want     []int
	}{
		{laufzeit: 20, step: 5, want: []int{0, 5, 10, 15, 20}},
		{laufzeit: 17, step: 5, want: []int{0, 5, 10, 15}},
		{laufzeit: 35, step: 5, want: []int{0, 5, 10, 15, 20, 25, 30, 35}},
		{laufzeit: 0, step: 5, want: []int{0}},
		{laufzeit: 4, step: 5, want: []int{0}},
		{laufzeit: 30, step: 10, want: []int{0, 10, 20, 30}},
	} {
		got, err := FixierungValues(tc.laufzeit, tc.step)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "laufzeit=%d step=%d", tc.laufzeit, tc.step)
	}
}

func TestFixierungValuesInvalid(t *testing.T) {
	_, err := FixierungValues(-1, 5)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = FixierungValues(20, 0)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = FixierungValues(20, -5)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFixierungValuesProperties(t *testing.T) {
	for laufzeit := 0; laufzeit <= 60; laufzeit++ {
		values, err := FixierungValues(laufzeit, 5)
		require.NoError(t, err)

		require.Equal(t, 0, values[0])
		for i, v := range values {
			require.LessOrEqual(t, v, laufzeit)
			if i > 0 {
				require.Greater(t, v, values[i-1])
				require.Zero(t, v%5)
			}
		}
		if laufzeit%5 == 0 {
			require.Equal(t, laufzeit, values[len(values)-1])
		}
	}
}
