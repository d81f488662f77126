// Package page renders the minified index page.
package page

import (
	"bytes"
	"fmt"
	"net/url"
	"text/template"

	"github.com/woozymasta/synthgeo/assets"
	"github.com/woozymasta/synthgeo/internal/bench"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
)

const defaultTitle = "Synthetic vector benchmarks"

// Data is passed to the index template.
type Data struct {
	Title   string
	CSS     string
	JS      string
	Favicon string
	Cases   []CaseLink
}

// CaseLink is one entry of the case menu.
type CaseLink struct {
	Name  string
	Title string
}

// Render builds the index page for the cases of cat.
func Render(cat *bench.Catalog) ([]byte, error) {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)

	cssMin, err := m.String("text/css", assets.Style)
	if err != nil {
		return nil, fmt.Errorf("minify CSS: %w", err)
	}
	jsMin, err := m.String("text/javascript", assets.Script)
	if err != nil {
		return nil, fmt.Errorf("minify JS: %w", err)
	}
	svgMin, err := m.String("image/svg+xml", assets.Favicon)
	if err != nil {
		return nil, fmt.Errorf("minify SVG: %w", err)
	}

	tmpl, err := template.New("index").Parse(assets.IndexTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	data := Data{
		Title:   defaultTitle,
		CSS:     cssMin,
		JS:      jsMin,
		Favicon: url.PathEscape(svgMin),
	}
	if cat != nil {
		for _, c := range cat.List() {
			data.Cases = append(data.Cases, CaseLink{Name: c.Name, Title: c.Title})
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	out, err := m.Bytes("text/html", buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("minify HTML: %w", err)
	}

	return out, nil
}

// Favicon returns the minified favicon.
func Favicon() ([]byte, error) {
	m := minify.New()
	m.AddFunc("image/svg+xml", svg.Minify)
	return m.Bytes("image/svg+xml", []byte(assets.Favicon))
}
