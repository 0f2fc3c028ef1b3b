package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/b1ms/Doggysteps-sub001/internal/domain"
)

func TestCursorRoundTrip(t *testing.T) {
	cursor := &domain.Cursor{
		StartedAt: time.Date(2026, time.August, 20, 7, 30, 0, 123456789, time.UTC),
		ID:        "walk-1",
	}

	token := EncodeCursor(cursor)
	require.NotEmpty(t, token)

	decoded, err := DecodeCursor(token)
	require.NoError(t, err)
	require.Equal(t, cursor.ID, decoded.ID)
	require.True(t, cursor.StartedAt.Equal(decoded.StartedAt))
}

func TestCursorEmptyAndInvalidTokens(t *testing.T) {
	require.Empty(t, EncodeCursor(nil))

	decoded, err := DecodeCursor("  ")
	require.NoError(t, err)
	require.Nil(t, decoded)

	_, err = DecodeCursor("not-base64!!")
	require.Error(t, err)
}
