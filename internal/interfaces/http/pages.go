package httpinterface

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/pasta-science/marketd/internal/core/application/auth"
	log "github.com/sirupsen/logrus"
)

const signinPath = "/signin"

//go:embed web/*.html
var webFS embed.FS

type pages struct {
	templates map[string]*template.Template
}

type pageData struct {
	Title       string
	Session     *auth.Session
	SessionJSON string
}

func newPages() (*pages, error) {
	templates := make(map[string]*template.Template)
	for _, name := range []string{"home", "user", "signin"} {
		tpl, err := template.ParseFS(
			webFS, "web/layout.html", fmt.Sprintf("web/%s.html", name),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", name, err)
		}
		templates[name] = tpl
	}
	return &pages{templates}, nil
}

func (p *pages) render(w http.ResponseWriter, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.templates[name].ExecuteTemplate(w, "layout", data); err != nil {
		log.WithError(err).Warnf("http: failed to render page %s", name)
	}
}

func (s *service) handleHome(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, signinPath, http.StatusFound)
		return
	}
	s.pages.render(w, "home", pageData{
		Title:   "Pasta Science Market",
		Session: session,
	})
}

func (s *service) handleUser(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, signinPath, http.StatusFound)
		return
	}

	buf, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		writeError(w, err)
		return
	}
	s.pages.render(w, "user", pageData{
		Title:       "🍝 Signed In! 🧪",
		Session:     session,
		SessionJSON: string(buf),
	})
}

func (s *service) handleSignin(w http.ResponseWriter, r *http.Request) {
	s.pages.render(w, "signin", pageData{Title: "Sign in"})
}
