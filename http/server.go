package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"simpleTwitter/auth"
	"simpleTwitter/crud"
	"simpleTwitter/domain"
	"simpleTwitter/errs"
	"simpleTwitter/metrics"
)

// ShutdownTimeout is how long Run waits for in-flight requests once its context is done.
const ShutdownTimeout = 10 * time.Second

// Server provides most of the http functionality of this app, namely routing,
// request handling, and middleware. It also performs authentication and
// authorization before handing things over to one of the crud services.
type Server struct {
	router  *mux.Router
	tokens  *auth.TokenIssuer
	metrics *metrics.Collector

	us domain.UserService
	ts domain.TweetService
	rs domain.ReplyService
	ls domain.LikeService
	fs domain.FollowshipService
	is domain.ImageService
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the crud services passed in.
func NewServer(services *crud.Services, tokens *auth.TokenIssuer, collector *metrics.Collector) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		tokens:  tokens,
		metrics: collector,
		us:      services.User,
		ts:      services.Tweet,
		rs:      services.Reply,
		ls:      services.Like,
		fs:      services.Followship,
		is:      services.Image,
	}

	api := s.router.PathPrefix("/api").Subrouter()

	// Register routes of the auth system.
	s.registerAuthRoutes(api)

	// Register routes of the crud system.
	s.registerUserRoutes(api)
	s.registerTweetRoutes(api)
	s.registerFollowshipRoutes(api)
	s.registerAdminRoutes(api)

	if collector != nil {
		s.router.Handle("/metrics", collector.Handler()).Methods("GET")
	}

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errs.ReturnError(w, r, errs.Errorf(errs.ENOTFOUND, "Route not found."))
	})
	// Known paths requested with the wrong method. The subrouter needs its own
	// handler, otherwise the mismatch surfaces as a 404.
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errs.ReturnError(w, r, errs.Errorf(errs.ENOTALLOWED, "Method not allowed."))
	})
	s.router.MethodNotAllowedHandler = methodNotAllowed
	api.MethodNotAllowedHandler = methodNotAllowed

	// Set up middleware that needs to run on every matched request. The user is
	// resolved first so that request logs can carry the user ID.
	s.router.Use(s.checkUser, s.logRequests, s.recordMetrics)
	api.Use(setContentTypeJSON)
	return s
}

// ServeImages serves the files in dir under the given url prefix.
// It is used for images kept on local disk instead of an object store.
func (s *Server) ServeImages(prefix, dir string) {
	s.router.PathPrefix(prefix).Handler(http.StripPrefix(prefix, http.FileServer(http.Dir(dir)))).Methods("GET")
}

// ServeHTTP dispatches the request to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps an http.ResponseWriter and remembers the status code.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.status = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.status = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// recorder returns the statusRecorder wrapping w, installing one if necessary.
func recorder(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

// logRequests writes one structured log line per request. 4xx responses are
// logged as warnings, 5xx responses as errors.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := recorder(w)
		next.ServeHTTP(rec, r)

		attrs := []any{
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
		}
		if user := auth.GetUser(r.Context()); user != nil {
			attrs = append(attrs, slog.Int("user_id", user.ID))
		}

		level := slog.LevelInfo
		if rec.status >= 500 {
			level = slog.LevelError
		} else if rec.status >= 400 {
			level = slog.LevelWarn
		}
		slog.Log(r.Context(), level, "http_request", attrs...)
	})
}

// recordMetrics counts the request by its route template.
func (s *Server) recordMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := recorder(w)
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		s.metrics.RecordRequest(r.Method, route, rec.status, time.Since(start))
	})
}

// Run listens and serves on the specified port until ctx is done,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("http server listening", slog.Int("port", port))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
