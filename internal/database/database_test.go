package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_IsLazy(t *testing.T) {
	s := New("not-a-mongo-uri", "catalog", nil)
	assert.Nil(t, s.client)
	require.NoError(t, s.Close(context.Background()))
}

func TestStore_InvalidURIIsRetried(t *testing.T) {
	s := New("not-a-mongo-uri", "catalog", nil)

	_, err := s.Collection(context.Background(), "products")
	require.Error(t, err)
	assert.Nil(t, s.client)

	_, err = s.Collection(context.Background(), "products")
	assert.Error(t, err)
}

func TestStore_ClosedStoreRejectsCalls(t *testing.T) {
	s := New("mongodb://localhost:27017", "catalog", nil)
	require.NoError(t, s.Close(context.Background()))

	_, err := s.Collection(context.Background(), "products")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Ping(context.Background()), ErrClosed)
}
