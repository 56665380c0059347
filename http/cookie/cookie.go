package cookie

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidName = errors.New("cookie name contains forbidden characters")

// Options are the Set-Cookie attributes. Zero values are omitted from the rendered header.
type Options struct {
	Path    string
	Domain  string
	Expires time.Time
	// MaxAge defines a delta in seconds, when the cookie should be dropped.
	// Note, that zero is treated as a zero-value, so will be ignored. In order
	// to be added with a value of zero, it must be negative. -1 is the conventional
	// value for this purpose
	MaxAge   int
	SameSite SameSite
	Secure   bool
	HttpOnly bool
}

type Cookie struct {
	Name  string
	Value string
	Options
}

func New(name, value string, opts ...Options) Cookie {
	c := Cookie{Name: name, Value: value}
	if len(opts) > 0 {
		c.Options = opts[0]
	}

	return c
}

// Expired returns a cookie instructing the user-agent to drop the cookie by the name.
// Path defaults to "/" as this is where most of the cookies are set.
func Expired(name string, opts Options) Cookie {
	if len(opts.Path) == 0 {
		opts.Path = "/"
	}

	opts.Expires = time.Unix(0, 0)
	opts.MaxAge = 0

	return New(name, "", opts)
}

type Builder struct {
	cookie Cookie
}

// Build is a chainable constructor for cookies.
func Build(name, value string) Builder {
	return Builder{New(name, value)}
}

func (b Builder) Path(path string) Builder {
	b.cookie.Path = path
	return b
}

func (b Builder) Domain(domain string) Builder {
	b.cookie.Domain = domain
	return b
}

func (b Builder) Expires(expires time.Time) Builder {
	b.cookie.Expires = expires
	return b
}

func (b Builder) MaxAge(maxAge int) Builder {
	b.cookie.MaxAge = maxAge
	return b
}

func (b Builder) SameSite(sameSite SameSite) Builder {
	b.cookie.SameSite = sameSite
	return b
}

func (b Builder) Secure(secure bool) Builder {
	b.cookie.Secure = secure
	return b
}

func (b Builder) HttpOnly(httpOnly bool) Builder {
	b.cookie.HttpOnly = httpOnly
	return b
}

// Cookie returns the built cookie instance
func (b Builder) Cookie() Cookie {
	return b.cookie
}

// Render serializes the cookie into a Set-Cookie header value. The value is percent-encoded,
// attributes go in the order Max-Age, Domain, Path, Expires, HttpOnly, SameSite, Secure.
func Render(c Cookie) (string, error) {
	if !validName(c.Name) {
		return "", ErrInvalidName
	}

	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte('=')
	b.WriteString(escape(c.Value))

	switch {
	case c.MaxAge > 0:
		b.WriteString("; Max-Age=")
		b.WriteString(strconv.Itoa(c.MaxAge))
	case c.MaxAge < 0:
		b.WriteString("; Max-Age=0")
	}

	if len(c.Domain) > 0 {
		b.WriteString("; Domain=")
		b.WriteString(c.Domain)
	}

	if len(c.Path) > 0 {
		b.WriteString("; Path=")
		b.WriteString(c.Path)
	}

	if !c.Expires.IsZero() {
		b.WriteString("; Expires=")
		b.WriteString(c.Expires.UTC().Format(http.TimeFormat))
	}

	if c.HttpOnly {
		b.WriteString("; HttpOnly")
	}

	if len(c.SameSite) > 0 {
		b.WriteString("; SameSite=")
		b.WriteString(c.SameSite)
	}

	if c.Secure {
		b.WriteString("; Secure")
	}

	return b.String(), nil
}

// escape behaves like url.QueryEscape, except spaces are encoded as %20, as a plus sign
// has no special meaning in cookies.
func escape(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}

func validName(name string) bool {
	if len(name) == 0 {
		return false
	}

	for i := 0; i < len(name); i++ {
		c := name[i]
		if c <= ' ' || c >= 0x7f || strings.IndexByte(`()<>@,;:\"/[]?={}`, c) != -1 {
			return false
		}
	}

	return true
}

type SameSite = string

const (
	SameSiteLax    SameSite = "Lax"
	SameSiteStrict SameSite = "Strict"
	SameSiteNone   SameSite = "None"
)
