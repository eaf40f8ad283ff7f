package idx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	id := New()
	require.False(t, id.IsZero())
	require.Len(t, id.String(), 26)
}

func TestNewMonotonic(t *testing.T) {
	prev := New()
	for range 100 {
		next := New()
		require.Less(t, prev.String(), next.String(), "ids should sort in generation order")
		prev = next
	}
}

func TestParse(t *testing.T) {
	id := New()

	parsed, err := Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	_, err = Parse("not-a-ulid")
	require.ErrorIs(t, err, ErrInvalid)

	_, err = Parse("")
	require.ErrorIs(t, err, ErrInvalid)
}

func TestTime(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	id := NewAt(at)
	require.WithinDuration(t, at, id.Time(), time.Millisecond)
}

func TestZero(t *testing.T) {
	require.True(t, Zero.IsZero())
	require.True(t, ID("").IsZero())
}
