package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	t.Run("identical points", func(t *testing.T) {
		require.Zero(t, Distance(6.5244, 3.3792, 6.5244, 3.3792))
	})

	t.Run("symmetric", func(t *testing.T) {
		a := Distance(6.5244, 3.3792, 9.0765, 7.3986)
		b := Distance(9.0765, 7.3986, 6.5244, 3.3792)
		require.InDelta(t, a, b, 1e-9)
	})

	t.Run("known distance", func(t *testing.T) {
		// Lagos to Abuja, roughly 536 km.
		d := Distance(6.5244, 3.3792, 9.0765, 7.3986)
		require.InDelta(t, 536000, d, 10000)
	})

	t.Run("antipodal stays finite", func(t *testing.T) {
		d := Distance(0, 0, 0, 180)
		require.False(t, math.IsNaN(d))
		require.InDelta(t, math.Pi*EarthRadius, d, 1)
	})
}

func TestFormatDistance(t *testing.T) {
	require.Equal(t, "3.8 km", FormatDistance(3849))
	require.Equal(t, "0.0 km", FormatDistance(0))
	require.Equal(t, "536.0 km", FormatDistance(536000))
}
