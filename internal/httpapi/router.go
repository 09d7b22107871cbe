// Package httpapi is the HTTP surface (C6): the /_build, /_status,
// /_jobs, and /_heart_beat endpoints, plus validation-error
// formatting. Routing follows the teacher's stdlib-ServeMux-plus-
// manual-path-parsing idiom rather than a third-party router.
package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/catalystcommunity/reactorcide/coordinator_api/internal/metrics"
	"github.com/rs/cors"
)

type contextKey string

const jobIDContextKey contextKey = "job_id"

func withJobID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, jobIDContextKey, id)
}

func jobIDFromContext(r *http.Request) string {
	if v, ok := r.Context().Value(jobIDContextKey).(string); ok {
		return v
	}
	return ""
}

// Server bundles the handlers backing the HTTP surface.
type Server struct {
	build     *buildHandler
	status    *statusHandler
	jobs      *jobsHandler
	heartBeat *heartBeatHandler
}

// NewServer wires the HTTP surface against a job service.
func NewServer(svc jobServiceAPI, serviceName string) *Server {
	return &Server{
		build:     &buildHandler{svc: svc},
		status:    &statusHandler{svc: svc},
		jobs:      &jobsHandler{svc: svc},
		heartBeat: &heartBeatHandler{serviceName: serviceName},
	}
}

// Mux builds the stdlib ServeMux with every route wired, instrumented
// with request-duration/count metrics.
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/_build", instrument("/_build", s.build.ServeHTTP))

	mux.HandleFunc("/_status/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/_status/")
		if id == "" {
			http.Error(w, "missing job id", http.StatusNotFound)
			return
		}
		r = r.WithContext(withJobID(r.Context(), id))
		instrument("/_status/{job_id}", s.status.ServeHTTP)(w, r)
	})

	mux.HandleFunc("/_jobs", instrument("/_jobs", s.jobs.ServeHTTP))
	mux.HandleFunc("/_heart_beat", instrument("/_heart_beat", s.heartBeat.ServeHTTP))
	mux.Handle("/metrics", metrics.Handler())

	return mux
}

// Router wraps the mux with permissive CORS, matching the teacher's
// NewRouter.
func (s *Server) Router() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
	})
	return c.Handler(s.Mux())
}

func instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		metrics.RecordAPIRequest(route, strconv.Itoa(rec.status), time.Since(start).Seconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
