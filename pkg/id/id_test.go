package id

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsSortable(t *testing.T) {
	prev := New()
	for n := 0; n < 1000; n++ {
		next := New()
		require.Less(t, prev, next)
		prev = next
	}
}

func TestNewAtRoundTrip(t *testing.T) {
	ts := time.Date(2024, 7, 15, 12, 0, 0, 123_000_000, time.UTC)
	got, err := Time(NewAt(ts))
	require.NoError(t, err)
	assert.True(t, got.Equal(ts))

	_, err = Time("not-an-id")
	assert.Error(t, err)
}
