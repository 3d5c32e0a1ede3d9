package mapper

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"os"
	"path/filepath"
	"regexp"

	"github.com/woozymasta/georoute/internal/geo"

	"github.com/Masterminds/sprig/v3"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// DefaultOutput is the map file written when no path is given.
const DefaultOutput = "traceroute_map.html"

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no valid geographic data to plot")

//go:embed templates/map.html.tpl
var templatesFS embed.FS

var mapTemplate = template.Must(
	template.New("map.html.tpl").
		Funcs(sprig.HtmlFuncMap()).
		ParseFS(templatesFS, "templates/map.html.tpl"),
)

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})

	return m
}

// Render executes the map template for doc, minifying the result when asked.
func Render(doc *Document, minified bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := mapTemplate.Execute(&buf, doc); err != nil {
		return nil, err
	}

	if !minified {
		return buf.Bytes(), nil
	}

	var out bytes.Buffer
	if err := newMinifier().Minify("text/html", &out, &buf); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// Generate builds the map for records and writes it to path.
// It returns false without touching the filesystem when records is empty.
func Generate(records []geo.Record, path string, opts Options) (bool, error) {
	if len(records) == 0 {
		log.Warn().Msg("No valid geographic data to plot")
		return false, nil
	}

	if path == "" {
		path = DefaultOutput
	}

	doc, err := Build(records, opts)
	if err != nil {
		return false, err
	}

	data, err := Render(doc, opts.Minify)
	if err != nil {
		return false, err
	}

	if err := writeFile(path, data); err != nil {
		return false, err
	}

	log.Info().
		Str("path", path).
		Int("markers", len(doc.Markers)).
		Int("hops", len(doc.Legend)).
		Msg("Map saved")

	return true, nil
}

// writeFile creates parent directories and writes data to path.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0644)
}
