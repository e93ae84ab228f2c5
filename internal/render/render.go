// Package render handles HTML template rendering for the server-side
// UI. Templates are parsed once at startup from the embedded web
// filesystem; helper functions cover the Persian presentation rules
// (digits, Jalali dates, Toman amounts).
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/rumiland/crm/internal/i18n"
	"github.com/rumiland/crm/internal/model"
	"github.com/rumiland/crm/internal/util"
)

// Renderer handles template rendering with caching. In development
// templates are re-parsed on every render so edits show up without a
// restart; in production the startup parse is final.
type Renderer struct {
	templates   map[string]*template.Template
	templatesFS fs.FS
	isDev       bool
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS fs.FS
	IsDev       bool
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:   make(map[string]*template.Template),
		templatesFS: cfg.TemplatesFS,
		isDev:       cfg.IsDev,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// parseTemplates parses all templates from the filesystem into a
// fresh map, replacing the cached set only on success.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	templates := make(map[string]*template.Template)

	partials, err := r.getTemplateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	baseLayout := "layouts/base.html"

	// Each group pairs a directory with the layouts its pages extend.
	for _, group := range []string{"pages", "auth", "errors"} {
		groupTemplates, err := r.getTemplateFiles(templatesFS, group)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", group, err)
		}

		for _, tmplPath := range groupTemplates {
			name := filepath.Base(tmplPath)
			name = strings.TrimSuffix(name, ".html")
			name = group + "/" + name

			files := []string{baseLayout}
			files = append(files, partials...)
			files = append(files, tmplPath)

			tmpl, err := template.New("").Funcs(r.templateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}

			templates[name] = tmpl
		}
	}

	r.templates = templates
	return nil
}

// getTemplateFiles returns all .html files in a directory.
func (r *Renderer) getTemplateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	var files []string

	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		// Directory might not exist yet, that's ok
		return files, nil
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	return files, nil
}

// templateFuncs returns custom template functions.
func (r *Renderer) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"T": i18n.T,
		"persianDigits": func(v any) string {
			return util.ToPersianDigits(fmt.Sprint(v))
		},
		"jalaliDate": func(isoDate string) string {
			return util.ToPersianDigits(util.FormatISOToJalali(isoDate))
		},
		"formatToman": func(amount float64) string {
			return util.ToPersianDigits(util.GroupThousands(fmt.Sprintf("%.0f", amount))) + " تومان"
		},
		"formatPhone": func(phone string) string {
			return util.ToPersianDigits(util.FormatPhone(phone))
		},
		"roleName":     model.RoleDisplayName,
		"cityName":     func(code string) string { return model.CityFromCode(code).DisplayName() },
		"typeName":     model.TransactionTypeDisplayName,
		"stockClass":   func(p model.Product) string { return p.StockStatusClass() },
		"formatDate": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
		"truncate": func(s string, length int) string {
			runes := []rune(s)
			if len(runes) <= length {
				return s
			}
			return string(runes[:length]) + "..."
		},
		"safe": func(s string) template.HTML {
			return template.HTML(s)
		},
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"seq": func(start, end int) []int {
			var result []int
			for i := start; i <= end; i++ {
				result = append(result, i)
			}
			return result
		},
	}
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Data        any
	Flash       string
	FlashType   string
	CurrentUser *model.User
	ActivePage  string
	Lang        string
	CurrentYear int
	Errors      []string
}

// Render renders a template with the given data. The pending flash
// message, if any, is consumed and cleared.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	if r.isDev {
		if err := r.parseTemplates(r.templatesFS); err != nil {
			return fmt.Errorf("reparsing templates: %w", err)
		}
	}

	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()
	if data.Lang == "" {
		data.Lang = i18n.DefaultLanguage
	}

	if flash, flashType := PopFlash(w, req); flash != "" {
		data.Flash = flash
		data.FlashType = flashType
	}

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
	return nil
}
