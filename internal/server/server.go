package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	log "github.com/sirupsen/logrus"

	"DoubleDown/internal/collector"
	"DoubleDown/internal/model"
	"DoubleDown/internal/recorder"
)

//go:embed static
var staticFiles embed.FS

// Server exposes the stock data endpoint, whole-run simulation, the live
// replay socket and the run history.
type Server struct {
	Fetcher  collector.Fetcher
	Recorder recorder.Recorder
	Defaults model.Params
	Debounce time.Duration

	router  *mux.Router
	decoder *schema.Decoder
	http    *http.Server
}

// NewServer wires the routes. rec may be nil.
func NewServer(fetcher collector.Fetcher, rec recorder.Recorder, defaults model.Params) *Server {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	s := &Server{
		Fetcher:  fetcher,
		Recorder: rec,
		Defaults: defaults,
		Debounce: collector.DefaultDebounce,
		router:   mux.NewRouter(),
		decoder:  decoder,
	}
	s.http = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/stock_data", s.handleStockData).Methods(http.MethodPost)
	api.HandleFunc("/simulate", s.handleSimulate).Methods(http.MethodPost)
	api.HandleFunc("/runs", s.handleRuns).Methods(http.MethodGet)
	api.HandleFunc("/runs/{id}/points", s.handleRunPoints).Methods(http.MethodGet)

	s.router.HandleFunc("/ws/replay", s.handleReplay)

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(static))).Methods(http.MethodGet)
}

// ServeHTTP makes the server usable as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until Shutdown is called. It returns nil
// without serving when Shutdown already ran.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("http: listen: %w", err)
	}
	log.Infof("listening on %s", ln.Addr())
	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http: serve: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

type errorResponse struct {
	Error string `json:"error"`
}

func setResponse(response interface{}, w http.ResponseWriter) error {
	return setStatusResponse(http.StatusOK, response, w)
}

func setStatusResponse(statusCode int, response interface{}, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		return fmt.Errorf("setResponse: encode: %w", err)
	}
	return nil
}

func setErrorResponse(statusCode int, message string, w http.ResponseWriter) {
	if err := setStatusResponse(statusCode, errorResponse{Error: message}, w); err != nil {
		log.Errorf("setErrorResponse: %v", err)
	}
}
