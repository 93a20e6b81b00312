package site

import (
	"embed"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/huangsam/locmeta/core"
	"github.com/huangsam/locmeta/internal/chart"
	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/schema"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageNames are the pages rendered from templates, by path below the base.
var pageNames = map[string]string{
	"":          "home",
	"projects/": "projects",
	"resume/":   "resume",
	"contact/":  "contact",
}

// schemeOption is one entry of the theme switcher.
type schemeOption struct {
	Value    schema.ColorScheme
	Label    string
	Selected bool
}

// pageData is what every page template receives.
type pageData struct {
	Title    string
	Base     string
	Nav      []schema.NavLink
	Scheme   schema.ColorScheme
	Schemes  []schemeOption
	Stats    []schema.StatPair
	Projects []schema.Project
	Summary  schema.ProjectsResult
}

func loadTemplates() (map[string]*template.Template, error) {
	layout, err := template.ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, err
	}
	out := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		t, err := clone.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, err
		}
		out[name] = t
	}
	return out, nil
}

// handlePage serves the site pages below the base path.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	base := BasePath(hostname(r.Host), s.cfg.BasePath)
	rel, ok := strings.CutPrefix(r.URL.Path, base)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if rel == "meta/" {
		s.handleMeta(w, r)
		return
	}
	name, ok := pageNames[rel]
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch {
	case name == "contact" && r.Method == http.MethodPost:
		s.handleContact(w, r)
		return
	case r.Method != http.MethodGet && r.Method != http.MethodHead:
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := s.pageData(r, name, base)
	if err != nil {
		s.logger.WithField("request_id", RequestID(r.Context())).WithError(err).Error("Cannot read theme")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl[name].ExecuteTemplate(w, "layout", data); err != nil {
		s.logger.WithField("request_id", RequestID(r.Context())).WithError(err).Error("Cannot render page")
	}
}

func (s *Server) pageData(r *http.Request, name, base string) (pageData, error) {
	scheme, _, err := s.themes.Get(hostname(r.Host))
	options := make([]schemeOption, len(schema.ColorSchemeLabels))
	for i, l := range schema.ColorSchemeLabels {
		options[i] = schemeOption{Value: l.Scheme, Label: l.Label, Selected: l.Scheme == scheme}
	}

	data := pageData{
		Title:   strings.ToUpper(name[:1]) + name[1:],
		Base:    base,
		Nav:     BuildNav(s.pages, requestURL(r), base),
		Scheme:  scheme,
		Schemes: options,
	}
	switch name {
	case "home":
		data.Stats = core.Summarize(s.records, s.commits, s.cfg.Location)
	case "projects":
		data.Projects = s.projects
		data.Summary = core.BuildProjects(s.projects)
	}
	return data, err
}

// handleContact turns the posted form into a redirect to the form action.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxFormBytes))
	if err != nil {
		http.Error(w, "Cannot read form", http.StatusBadRequest)
		return
	}
	fields, err := ParseForm(string(body))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Location", ContactURL(ContactAction(s.cfg.ContactEmail), fields))
	w.WriteHeader(http.StatusSeeOther)
}

// handleMeta serves the commit chart page for the requested cutoff and brush.
func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	state, err := s.stateFor(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if raw := r.URL.Query().Get("brush"); raw != "" {
		sel, err := contract.ParseBrush(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		state.SetSelection(sel)
	}
	in, err := core.BuildPlot(state, "")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	in.Projects = core.BuildProjects(s.projects)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := chart.RenderPage(w, in); err != nil {
		s.logger.WithField("request_id", RequestID(r.Context())).WithError(err).Error("Cannot render chart page")
	}
}
