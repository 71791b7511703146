package dealer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry(nil)
	tb := r.Open()
	_, err := uuid.Parse(tb.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())

	got, err := r.Get(tb.ID)
	require.NoError(t, err)
	assert.Same(t, tb, got)

	require.NoError(t, r.Close(tb.ID))
	_, err = r.Get(tb.ID)
	assert.ErrorIs(t, err, ErrUnknownTable)
	assert.ErrorIs(t, r.Close(tb.ID), ErrUnknownTable)
}

func TestRegistryRejectsMalformedID(t *testing.T) {
	r := NewRegistry(nil)
	_, err := r.Get("not-a-table")
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestRegistryTablesOwnDecks(t *testing.T) {
	seeds := []int64{1, 2}
	i := 0
	r := NewRegistry(func() int64 { s := seeds[i]; i++; return s })
	a, b := r.Open(), r.Open()
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotSame(t, a.Dealer, b.Dealer)

	a.Dealer.Shuffle()
	assert.Equal(t, New(1).Deck(), b.Dealer.Deck(), "shuffling one table must not touch another")
}
