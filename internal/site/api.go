package site

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/locmeta/core"
	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/schema"
)

// apiError is the body of every failed API call.
type apiError struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// themeResponse is the body of the theme endpoints.
type themeResponse struct {
	Origin string             `json:"origin"`
	Scheme schema.ColorScheme `json:"scheme"`
	Label  string             `json:"label"`
	Stored bool               `json:"stored"`
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		s.logger.WithField("request_id", RequestID(r.Context())).WithError(err).Error("Cannot encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.writeJSON(w, r, status, apiError{Error: err.Error(), RequestID: RequestID(r.Context())})
}

// stateFor builds a view state and applies the cutoff or progress query.
func (s *Server) stateFor(r *http.Request) (*core.ViewState, error) {
	state, err := core.NewViewState(s.records, s.commits, s.cfg.Location)
	if err != nil {
		return nil, err
	}
	q := r.URL.Query()
	cutoff, progress := q.Get("cutoff"), q.Get("progress")
	switch {
	case cutoff != "" && progress != "":
		return nil, errors.New("cutoff and progress cannot be combined")
	case cutoff != "":
		t, err := contract.ParseCutoff(cutoff, time.Now(), s.cfg.Location)
		if err != nil {
			return nil, err
		}
		state.SetCutoff(t)
	case progress != "":
		p, err := contract.ParseProgress(progress)
		if err != nil {
			return nil, err
		}
		state.SetProgress(p)
	}
	return state, nil
}

// stateOrError writes the failure and returns nil when the state cannot be built.
func (s *Server) stateOrError(w http.ResponseWriter, r *http.Request) *core.ViewState {
	state, err := s.stateFor(r)
	switch {
	case errors.Is(err, schema.ErrNoCommits):
		s.writeError(w, r, http.StatusNotFound, err)
		return nil
	case err != nil:
		s.writeError(w, r, http.StatusBadRequest, err)
		return nil
	}
	return state
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, core.BuildStats(s.cfg, s.records, s.commits))
}

func (s *Server) handleCommits(w http.ResponseWriter, r *http.Request) {
	if state := s.stateOrError(w, r); state != nil {
		s.writeJSON(w, r, http.StatusOK, core.BuildCommits(state))
	}
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	sel, err := contract.ParseBrush(r.URL.Query().Get("brush"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if state := s.stateOrError(w, r); state != nil {
		s.writeJSON(w, r, http.StatusOK, core.BuildSelection(state, sel))
	}
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	if state := s.stateOrError(w, r); state != nil {
		s.writeJSON(w, r, http.StatusOK, core.BuildFiles(state))
	}
}

func (s *Server) handleStory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	step := 0
	if raw := q.Get("step"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, errors.New("step must be an integer"))
			return
		}
		step = n
	}
	view := schema.StoryView(strings.ToLower(q.Get("view")))
	switch view {
	case "":
		view = schema.ScatterView
	case schema.ScatterView, schema.FilesView:
	default:
		s.writeError(w, r, http.StatusBadRequest, errors.New("view must be scatter or files"))
		return
	}

	state := s.stateOrError(w, r)
	if state == nil {
		return
	}
	result, err := core.BuildStory(state, step, view)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, core.BuildProjects(s.projects))
}

func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	current := requestURL(r)
	if ref := r.URL.Query().Get("path"); ref != "" {
		current.Path = ref
	}
	s.writeJSON(w, r, http.StatusOK, BuildNav(s.pages, current, BasePath(hostname(r.Host), s.cfg.BasePath)))
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	origin := hostname(r.Host)
	scheme, stored, err := s.themes.Get(origin)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, themeResponse{Origin: origin, Scheme: scheme, Label: SchemeLabel(scheme), Stored: stored})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Scheme string `json:"scheme"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxFormBytes)).Decode(&body); err != nil {
		s.writeError(w, r, http.StatusBadRequest, errors.New("body must be {\"scheme\": ...}"))
		return
	}
	origin := hostname(r.Host)
	scheme, err := s.themes.Set(origin, body.Scheme)
	switch {
	case errors.Is(err, schema.ErrInvalidScheme):
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	case err != nil:
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, themeResponse{Origin: origin, Scheme: scheme, Label: SchemeLabel(scheme), Stored: true})
}
