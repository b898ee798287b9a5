package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	PageIndex = "index.html"
	PageRank  = "rank.html"
)

type pageData struct {
	Title        string
	StaticPrefix string
}

var titles = map[string]string{
	PageIndex: "Join the waitlist",
	PageRank:  "Waitlist rankings",
}

// Pages renders the two HTML shells the wasm bundle attaches to.
type Pages struct {
	pages        map[string]*template.Template
	staticPrefix string
}

func NewPages(staticPrefix string) (*Pages, error) {
	p := &Pages{pages: make(map[string]*template.Template), staticPrefix: staticPrefix}
	for name := range titles {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		p.pages[name] = t
	}
	return p, nil
}

func (p *Pages) Render(w http.ResponseWriter, name string) error {
	t, ok := p.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	// render to a buffer first so a failed template never sends half a page
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, pageData{Title: titles[name], StaticPrefix: p.staticPrefix}); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}
