package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/timeruler/pkg/errors"
	"github.com/matzehuels/timeruler/pkg/observability"
	"github.com/matzehuels/timeruler/pkg/pipeline"
	"github.com/matzehuels/timeruler/pkg/ruler/layout"
	"github.com/matzehuels/timeruler/pkg/ruler/view"
	"github.com/matzehuels/timeruler/pkg/session"
	"github.com/matzehuels/timeruler/pkg/timeline"
)

// noFocus is the query value that disables magnification.
const noFocus = "none"

// =============================================================================
// Snapshot endpoints
// =============================================================================

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Data())
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	opts := s.base
	opts.SetLayoutDefaults()
	year := opts.CurrentYear
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid year: %q", v))
			return
		}
		year = y
	}
	writeJSON(w, http.StatusOK, layout.YearMarkers(s.Data().Entries, year))
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	data, _ := s.snapshot()
	opts, err := s.stateOptions(r.URL.Query(), data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := s.runner.Layout(r.Context(), data, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	data, hash := s.snapshot()
	q := r.URL.Query()
	opts, err := s.stateOptions(q, data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{pipeline.FormatSVG}
	opts.IndexLabels = q.Get("labels") == "1"
	opts.Tooltips = q.Get("tooltips") == "1"

	key := hash + "?" + q.Encode()
	svg, err := s.singleflightRender(r.Context(), key, func(ctx context.Context) ([]byte, error) {
		l, err := s.runner.Layout(ctx, data, opts)
		if err != nil {
			return nil, err
		}
		artifacts, err := s.runner.Render(ctx, l, opts)
		if err != nil {
			return nil, err
		}
		return artifacts[pipeline.FormatSVG], nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

// singleflightRender collapses concurrent renders of the same ruler.
func (s *Server) singleflightRender(ctx context.Context, key string, fn func(context.Context) ([]byte, error)) ([]byte, error) {
	ch := s.renders.DoChan(key, func() (any, error) {
		return fn(ctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// stateOptions layers the focus, hover and current query parameters over the
// base options. A missing focus selects the default focus; focus=none clears it.
func (s *Server) stateOptions(q url.Values, data timeline.Data) (pipeline.Options, error) {
	opts := s.base
	focus, err := queryDate(q, "focus")
	if err != nil {
		return opts, err
	}
	switch {
	case q.Get("focus") == "":
		focus = view.New(data, view.Options{}).DefaultFocus()
	case q.Get("focus") == noFocus:
		focus = timeline.Date{}
	}
	if opts.Hovered, err = queryDate(q, "hover"); err != nil {
		return opts, err
	}
	if opts.Current, err = queryDate(q, "current"); err != nil {
		return opts, err
	}
	opts.Focus = focus
	return opts, nil
}

func queryDate(q url.Values, name string) (timeline.Date, error) {
	v := q.Get(name)
	if v == "" || v == noFocus {
		return timeline.Date{}, nil
	}
	return timeline.ParseDate(v)
}

// =============================================================================
// View sessions
// =============================================================================

type createViewRequest struct {
	Current timeline.Date `json:"current"`
}

type dateRequest struct {
	Date timeline.Date `json:"date"`
}

type viewResponse struct {
	ID      string        `json:"id"`
	Layout  layout.Layout `json:"layout"`
	Summary view.Summary  `json:"summary"`
}

func (s *Server) handleCreateView(w http.ResponseWriter, r *http.Request) {
	var req createViewRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.base
	opts.SetLayoutDefaults()

	var sess *session.Session
	v := view.New(s.Data(), view.Options{
		Current: req.Current,
		Layout:  opts.LayoutOptions(),
		OnDateClick: func(d timeline.Date) {
			s.logger.Info("date clicked", "view", sess.ID, "date", d)
			observability.HTTP().OnDateClick(context.Background(), sess.ID, d.String())
		},
	})
	if req.Current.IsZero() {
		v.RandomCurrent(nil)
	}
	sess = session.New(v, s.cfg.ViewTTL)
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store view"))
		return
	}
	observability.HTTP().OnViewCreated(r.Context(), sess.ID)
	s.logger.Debug("view created", "view", sess.ID, "focus", v.State().Focus, "current", v.State().Current)

	writeJSON(w, http.StatusCreated, respond(sess, nil))
}

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	s.withView(w, r, nil)
}

func (s *Server) handleDeleteView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateViewID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	_ = s.sessions.Delete(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	date, err := requiredDate(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withView(w, r, func(v *view.View) { v.Click(date) })
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	date, err := requiredDate(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.withView(w, r, func(v *view.View) { v.Hover(date) })
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	s.withView(w, r, func(v *view.View) { v.Leave() })
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var summary view.Summary
	sess.Do(func(v *view.View) { summary = v.Summary() })
	writeJSON(w, http.StatusOK, summary)
}

// withView applies fn to the addressed view and responds with its layout.
func (s *Server) withView(w http.ResponseWriter, r *http.Request, fn func(v *view.View)) {
	sess, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, respond(sess, fn))
}

func respond(sess *session.Session, fn func(v *view.View)) viewResponse {
	resp := viewResponse{ID: sess.ID}
	sess.Do(func(v *view.View) {
		if fn != nil {
			fn(v)
		}
		resp.Layout = v.Layout()
		resp.Summary = v.Summary()
	})
	return resp
}

func (s *Server) lookup(r *http.Request) (*session.Session, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateViewID(id); err != nil {
		return nil, err
	}
	sess, err := s.sessions.Get(r.Context(), id)
	if stderrors.Is(err, session.ErrNotFound) || stderrors.Is(err, session.ErrExpired) {
		return nil, errors.New(errors.ErrCodeViewNotFound, "view %s not found", id)
	}
	return sess, err
}

func requiredDate(r *http.Request) (timeline.Date, error) {
	var req dateRequest
	if err := decodeJSON(r, &req); err != nil {
		return timeline.Date{}, err
	}
	if req.Date.IsZero() {
		return timeline.Date{}, errors.New(errors.ErrCodeInvalidInput, "date is required")
	}
	return req.Date, nil
}
