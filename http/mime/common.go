package mime

import (
	"path/filepath"
	"strings"

	"github.com/indigo-web/utils/strcomp"
)

type MIME = string

const (
	OctetStream    MIME = "application/octet-stream"
	Plain          MIME = "text/plain"
	HTML           MIME = "text/html"
	XML            MIME = "text/xml"
	CSS            MIME = "text/css"
	CSV            MIME = "text/csv"
	JSON           MIME = "application/json"
	JavaScript     MIME = "application/javascript"
	YAML           MIME = "application/yaml"
	PDF            MIME = "application/pdf"
	FormUrlencoded MIME = "application/x-www-form-urlencoded"
	Multipart      MIME = "multipart/form-data"
	ZIP            MIME = "application/zip"
	GZIP           MIME = "application/gzip"
	WASM           MIME = "application/wasm"
	GIF            MIME = "image/gif"
	JPEG           MIME = "image/jpeg"
	PNG            MIME = "image/png"
	SVG            MIME = "image/svg+xml"
	ICO            MIME = "image/vnd.microsoft.icon"
	WEBP           MIME = "image/webp"
	AVIF           MIME = "image/avif"
	MP4            MIME = "video/mp4"
)

// Extension maps lower-case file extensions (with the leading dot) to their MIME.
var Extension = map[string]MIME{
	".avif": AVIF,
	".css":  CSS,
	".csv":  CSV,
	".gif":  GIF,
	".gz":   GZIP,
	".htm":  HTML,
	".html": HTML,
	".ico":  ICO,
	".jpeg": JPEG,
	".jpg":  JPEG,
	".js":   JavaScript,
	".mjs":  JavaScript,
	".json": JSON,
	".mp4":  MP4,
	".pdf":  PDF,
	".png":  PNG,
	".svg":  SVG,
	".txt":  Plain,
	".wasm": WASM,
	".webp": WEBP,
	".xml":  XML,
	".yaml": YAML,
	".yml":  YAML,
	".zip":  ZIP,
}

// Lookup returns the MIME of the file by its extension. If the extension is unknown,
// empty string is returned.
func Lookup(path string) MIME {
	return Extension[strings.ToLower(filepath.Ext(path))]
}

// Normalize converts a short type notation into the full MIME. Values containing a slash
// are returned as is, everything else is treated as an extension, with or without the dot
// ("json", ".html"). Unknown extensions fall back to OctetStream.
func Normalize(t string) MIME {
	if strings.IndexByte(t, '/') != -1 {
		return t
	}

	if !strings.HasPrefix(t, ".") {
		t = "." + t
	}

	if m := Lookup(t); len(m) > 0 {
		return m
	}

	return OctetStream
}

// Complies returns whether two MIMEs are compatible. Parameters are ignored, comparison
// is case-insensitive. Empty MIME is considered compatible with any other MIME
func Complies(mime MIME, with string) bool {
	with, _, _ = strings.Cut(with, ";")
	with = strings.TrimSpace(with)
	return len(with) == 0 || strcomp.EqualFold(with, mime)
}
