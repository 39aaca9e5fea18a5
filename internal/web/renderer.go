package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/elskow/legoset/internal/auth"
)

//go:embed templates/*.html
var templatesFS embed.FS

const layoutFile = "templates/layout.html"

var funcs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		return t.Local().Format("Mon Jan 2 2006 15:04:05")
	},
}

// Renderer renders the embedded views inside the shared layout. Every view
// receives the caller's session under "session" when one is loaded.
type Renderer struct {
	views map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	files, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	views := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutFile {
			continue
		}

		name := strings.TrimSuffix(path.Base(file), ".html")
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse view %s: %w", name, err)
		}
		views[name] = tmpl
	}

	return &Renderer{views: views}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := r.views[name]
	if !ok {
		return fmt.Errorf("view %q not found", name)
	}

	view := echo.Map{}
	switch d := data.(type) {
	case echo.Map:
		for k, v := range d {
			view[k] = v
		}
	case nil:
	default:
		view["data"] = d
	}

	if c != nil {
		if s, ok := auth.SessionFromContext(c); ok {
			view["session"] = s
		}
	}

	return tmpl.ExecuteTemplate(w, "layout", view)
}

// Has reports whether a view with that name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.views[name]
	return ok
}
