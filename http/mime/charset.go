package mime

type Charset = string

const (
	UTF8  Charset = "utf-8"
	ASCII Charset = "ascii"
)

// DefaultCharset defines charsets, used by default for MIMEs unless explicitly set.
var DefaultCharset = map[MIME]Charset{
	Plain:      UTF8,
	HTML:       UTF8,
	CSS:        UTF8,
	CSV:        UTF8,
	XML:        UTF8,
	JSON:       UTF8,
	JavaScript: UTF8,
}

// WithCharset appends the default charset parameter to the MIME, if there's one and the
// MIME doesn't carry any parameters yet.
func WithCharset(mime MIME) string {
	charset, found := DefaultCharset[mime]
	if !found {
		return mime
	}

	return mime + "; charset=" + charset
}
