package status

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodes(t *testing.T) {
	t.Run("string code", func(t *testing.T) {
		for code := range texts {
			require.Equal(t, fmt.Sprint(code), StringCode(code))
		}
	})

	t.Run("text", func(t *testing.T) {
		require.Equal(t, "Found", Text(Found))
		require.Empty(t, Text(599))
	})

	t.Run("redirects", func(t *testing.T) {
		require.True(t, IsRedirect(Found))
		require.False(t, IsRedirect(OK))
	})
}

func TestCodeOf(t *testing.T) {
	require.Equal(t, NotFound, CodeOf(ErrNotFound))
	require.Equal(t, UnsupportedMediaType, CodeOf(fmt.Errorf("body: %w", ErrUnsupportedMediaType)))
	require.Equal(t, InternalServerError, CodeOf(fmt.Errorf("boom")))
}
