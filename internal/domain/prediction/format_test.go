package prediction

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	require.Equal(t, "20", Percent(0.2))
	require.Equal(t, "80", Percent(0.8))
	require.Equal(t, "57", Percent(0.57))
	require.Equal(t, "12.345", Percent(0.12345))
	require.Equal(t, "0", Percent(0))
	require.Equal(t, "100", Percent(1))
}

func TestResultLabel(t *testing.T) {
	require.Equal(t, "Hazardous", Result{IsHazardous: true}.Label())
	require.Equal(t, "Not Hazardous", Result{}.Label())
}
