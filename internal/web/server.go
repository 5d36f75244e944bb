// Package web serves the reading as a single-page form flow.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"mitay-fortune-quiz/internal/catalog"
	"mitay-fortune-quiz/internal/element"
	"mitay-fortune-quiz/internal/messages"
	"mitay-fortune-quiz/internal/reading"
	"mitay-fortune-quiz/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

var errInvalidInput = errors.New("invalid input")

// Config is what the server needs besides the catalog.
type Config struct {
	Lang  messages.Lang
	Picks int
}

// Server renders the form and the reading pages.
type Server struct {
	cfg       Config
	items     []catalog.Item
	logger    *zap.Logger
	templates *template.Template
	now       func() time.Time
	srv       *http.Server
}

// NewServer builds a server over an already loaded catalog.
func NewServer(cfg Config, items []catalog.Item, logger *zap.Logger) *Server {
	if cfg.Picks < 1 {
		cfg.Picks = catalog.DefaultPicks
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:       cfg,
		items:     items,
		logger:    logger,
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
		now:       time.Now,
	}
}

// Handler returns the routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleForm)
	mux.HandleFunc("POST /reading", s.handleReading)
	mux.HandleFunc("POST /reading.json", s.handleReadingJSON)
	mux.HandleFunc("POST /reading.md", s.handleReadingMarkdown)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	return s.logRequests(mux)
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		<-errCh
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

type formValues struct {
	Lang   string
	Name   string
	Method string
	DOB    string
	Time   string
	Nums   string
	Target string
	Goal   string
}

type formPage struct {
	Msgs   messages.Messages
	Lang   messages.Lang
	Goals  []element.Goal
	Values formValues
	Error  string
}

type resultPage struct {
	Msgs    messages.Messages
	Lang    messages.Lang
	Result  reading.Result
	Summary []string
	Picks   string
	Values  formValues
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	lang := s.cfg.Lang
	if l, ok := messages.ParseLang(r.URL.Query().Get("lang")); ok {
		lang = l
	}
	s.render(w, http.StatusOK, "form.html", formPage{
		Msgs:   messages.For(lang),
		Lang:   lang,
		Goals:  element.Goals(),
		Values: formValues{Lang: string(lang), Method: string(reading.Birthdate), Target: s.now().Format("2006-01")},
	})
}

func (s *Server) handleReading(w http.ResponseWriter, r *http.Request) {
	res, values, ok := s.build(w, r)
	if !ok {
		return
	}
	s.render(w, http.StatusOK, "result.html", resultPage{
		Msgs:    messages.For(res.Lang),
		Lang:    res.Lang,
		Result:  res,
		Summary: report.PlainSummaryLines(res),
		Picks:   report.PicksTitle(res),
		Values:  values,
	})
}

func (s *Server) handleReadingJSON(w http.ResponseWriter, r *http.Request) {
	res, _, ok := s.build(w, r)
	if !ok {
		return
	}
	data, err := report.MarshalJSON(res)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.json"`, stem(res)))
	w.Write(data)
}

func (s *Server) handleReadingMarkdown(w http.ResponseWriter, r *http.Request) {
	res, _, ok := s.build(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.md"`, stem(res)))
	w.Write([]byte(report.RenderMarkdown(res)))
}

func stem(res reading.Result) string {
	return "session_" + res.CreatedAt.Format("20060102_150405")
}

// build parses the form and runs the reading. On invalid input it re-renders
// the form with a 400 and reports false.
func (s *Server) build(w http.ResponseWriter, r *http.Request) (reading.Result, formValues, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return reading.Result{}, formValues{}, false
	}
	values := formValues{
		Lang:   r.PostForm.Get("lang"),
		Name:   r.PostForm.Get("name"),
		Method: r.PostForm.Get("method"),
		DOB:    r.PostForm.Get("dob"),
		Time:   r.PostForm.Get("time"),
		Nums:   r.PostForm.Get("nums"),
		Target: r.PostForm.Get("target"),
		Goal:   r.PostForm.Get("goal"),
	}

	in, err := values.input(s.cfg.Lang)
	if err != nil {
		s.logger.Debug("rejected form", zap.Error(err))
		s.render(w, http.StatusBadRequest, "form.html", formPage{
			Msgs:   messages.For(in.Lang),
			Lang:   in.Lang,
			Goals:  element.Goals(),
			Values: values,
			Error:  messages.For(in.Lang).Invalid,
		})
		return reading.Result{}, values, false
	}

	res := reading.Build(in, s.items, s.cfg.Picks, s.now())
	s.logger.Debug("reading built",
		zap.String("session_id", res.SessionID),
		zap.String("goal", string(res.Goal)),
		zap.Strings("elements", res.ElementsConsidered.Strings()),
		zap.Int("score", res.Score),
	)
	return res, values, true
}

func (v formValues) input(fallback messages.Lang) (reading.Input, error) {
	lang, ok := messages.ParseLang(v.Lang)
	if !ok {
		lang = fallback
	}
	in := reading.Input{
		Name:        v.Name,
		Lang:        lang,
		DOB:         v.DOB,
		BirthTime:   v.Time,
		TargetMonth: v.Target,
	}

	method, ok := reading.ParseMethod(v.Method)
	if !ok {
		return in, fmt.Errorf("%w: method %q", errInvalidInput, v.Method)
	}
	in.Method = method
	if method == reading.Meihua {
		in.Nums = element.ParseNumbers(v.Nums)
	}

	goal, ok := element.ParseGoal(v.Goal)
	if !ok {
		return in, fmt.Errorf("%w: goal %q", errInvalidInput, v.Goal)
	}
	in.Goal = goal
	return in, nil
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template render failed", zap.String("template", name), zap.Error(err))
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}
