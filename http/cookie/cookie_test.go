package cookie

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Run("only listed attributes", func(t *testing.T) {
		value, err := Render(New("a", "1", Options{MaxAge: 100, HttpOnly: true}))
		require.NoError(t, err)
		require.Equal(t, "a=1; Max-Age=100; HttpOnly", value)
	})

	t.Run("bare", func(t *testing.T) {
		value, err := Render(New("session", "abc"))
		require.NoError(t, err)
		require.Equal(t, "session=abc", value)
	})

	t.Run("all attributes", func(t *testing.T) {
		c := Build("id", "hello world").
			Path("/").
			Domain("example.com").
			Expires(time.Date(2030, time.January, 2, 3, 4, 5, 0, time.UTC)).
			MaxAge(60).
			SameSite(SameSiteStrict).
			Secure(true).
			HttpOnly(true).
			Cookie()

		value, err := Render(c)
		require.NoError(t, err)
		require.Equal(t,
			"id=hello%20world; Max-Age=60; Domain=example.com; Path=/; "+
				"Expires=Wed, 02 Jan 2030 03:04:05 GMT; HttpOnly; SameSite=Strict; Secure",
			value,
		)
	})

	t.Run("negative max age", func(t *testing.T) {
		value, err := Render(New("a", "", Options{MaxAge: -1}))
		require.NoError(t, err)
		require.Equal(t, "a=; Max-Age=0", value)
	})

	t.Run("invalid name", func(t *testing.T) {
		_, err := Render(New("bad name", "1"))
		require.ErrorIs(t, err, ErrInvalidName)

		_, err = Render(New("", "1"))
		require.ErrorIs(t, err, ErrInvalidName)
	})
}

func TestExpired(t *testing.T) {
	value, err := Render(Expired("a", Options{}))
	require.NoError(t, err)
	require.Equal(t, "a=; Path=/; Expires=Thu, 01 Jan 1970 00:00:00 GMT", value)
}
