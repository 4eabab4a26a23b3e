// Package server serves the listings web UI. Visitor preferences (seen
// movies, theater ranking, day range) live in cookies; all listing data comes
// from the aggregation pipeline on every request, backed by its caches.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/joshhunt/marquee/internal/listings"
)

//go:embed views/listings.gohtml
var viewsFS embed.FS

var templates = template.Must(template.ParseFS(viewsFS, "views/*.gohtml"))

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	client  *listings.Client
	router  chi.Router
	httpSrv *http.Server
	now     func() time.Time
}

// New constructs the web server around a listings client.
func New(client *listings.Client) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	s := &Server{
		client: client,
		router: r,
		now:    time.Now,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/set-theater", s.handleSetTheater)
	s.router.Get("/set-days-ahead", s.handleSetDaysAhead)
	s.router.Get("/set-seen", s.handleSetSeen)
}

// Handler returns the root HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context, port int) error {
	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "port", port)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	seenIDs := seenMovieIDs(r)
	days := daysAhead(r)
	selectedTheaters := theaters(r)

	from, to := listings.Window(s.now(), days)
	query := listings.Query{
		FromDate: from,
		ToDate:   to,
		Theaters: selectedTheaters,
	}

	result, err := s.client.FetchMovieData(r.Context(), query)
	if err != nil {
		slog.Error("Aggregation failed", "error", err)
		http.Error(w, "Something went wrong fetching listings. Try again in a bit.", http.StatusBadGateway)
		return
	}

	view := buildView(result, seenIDs, selectedTheaters, days)
	if err := templates.ExecuteTemplate(w, "listings.gohtml", view); err != nil {
		slog.Error("Template render failed", "error", err)
	}
}

func (s *Server) handleSetTheater(w http.ResponseWriter, r *http.Request) {
	theaterID := r.URL.Query().Get("theaterId")
	if theaterID == "" {
		http.Error(w, "No theater ID provided", http.StatusBadRequest)
		return
	}

	setCookieList(w, "theaters", toggle(theaters(r), theaterID))
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleSetDaysAhead(w http.ResponseWriter, r *http.Request) {
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil || days < 1 || days > 90 {
		http.Error(w, "Invalid days value", http.StatusBadRequest)
		return
	}

	setCookieList(w, "daysAhead", []string{strconv.Itoa(days)})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleSetSeen(w http.ResponseWriter, r *http.Request) {
	movieID := r.URL.Query().Get("movieId")
	if movieID == "" {
		http.Error(w, "No movie ID provided", http.StatusBadRequest)
		return
	}

	setCookieList(w, "seenMovieIds", toggle(seenMovieIDs(r), movieID))
	http.Redirect(w, r, "/", http.StatusFound)
}
