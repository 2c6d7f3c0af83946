package sentiment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVADER_Compound(t *testing.T) {
	v := NewVADER()

	positive, err := v.Compound("I love this, it is wonderful!")
	require.NoError(t, err)
	require.GreaterOrEqual(t, positive, 0.05)

	negative, err := v.Compound("I hate this, it is terrible.")
	require.NoError(t, err)
	require.LessOrEqual(t, negative, -0.05)

	neutral, err := v.Compound("The meeting is at noon.")
	require.NoError(t, err)
	require.Greater(t, neutral, -0.05)
	require.Less(t, neutral, 0.05)
}

func TestVADER_CompoundRange(t *testing.T) {
	v := NewVADER()
	for _, text := range []string{"", "ok", "absolutely amazing fantastic great", "horrible awful disaster"} {
		score, err := v.Compound(text)
		require.NoError(t, err)
		require.GreaterOrEqual(t, score, -1.0)
		require.LessOrEqual(t, score, 1.0)
	}
}
