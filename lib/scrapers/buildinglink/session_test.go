package buildinglink

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCookieRoundtrip(t *testing.T) {
	session := NewSession()
	session.CaptureCookies([]string{
		"theme=dark; Path=/; HttpOnly",
		"lang=en-US",
		"greeting=hello%20world; Secure",
	})

	require.Equal(t, map[string]string{
		"theme":    "dark",
		"lang":     "en-US",
		"greeting": "hello world",
	}, session.Cookies())

	// capture ∘ apply is the identity on the name/value mapping, modulo
	// the percent-decoding that already happened on capture
	reparsed := NewSession()
	for _, pair := range strings.Split(session.CookieHeader(), "; ") {
		reparsed.CaptureCookies([]string{pair})
	}
	require.Equal(t, session.Cookies(), reparsed.Cookies())
}

func TestCookieLastWriteWins(t *testing.T) {
	session := NewSession()
	session.CaptureCookies([]string{"token=old; Path=/"})
	session.CaptureCookies([]string{"token=new; Path=/"})

	value, ok := session.Cookie("token")
	require.True(t, ok)
	require.Equal(t, "new", value)
}

func TestIsAuthenticated(t *testing.T) {
	session := NewSession()
	require.False(t, session.IsAuthenticated())

	session.SetCookie("unrelated", "value")
	require.False(t, session.IsAuthenticated())

	session.SetCookie(SessionCookieName, "opaque")
	require.True(t, session.IsAuthenticated())
}

func TestHistoryRemember(t *testing.T) {
	session := NewSession()
	require.True(t, session.remember("[GET] https://host/a"))
	require.True(t, session.remember("[POST] https://host/a"))
	require.False(t, session.remember("[GET] https://host/a"))

	session.ClearHistory()
	require.True(t, session.remember("[GET] https://host/a"))
}
