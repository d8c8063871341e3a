// Package rpc exposes the daemon service over local JSON-RPC 2.0 on HTTP.
package rpc

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"anchor-todo/go-client/internal/app"
	"anchor-todo/go-client/internal/metrics"
	"anchor-todo/go-client/internal/platform/ratelimiter"
)

const (
	DefaultRPCAddr = "127.0.0.1:8787"

	tokenHeader = "X-Anchor-RPC-Token"
)

type Options struct {
	Addr         string
	Token        string
	RequireToken bool
	// RPS and Burst bound requests per client; zero disables throttling.
	RPS      float64
	Burst    int
	Metrics  *metrics.Recorder
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

type Server struct {
	httpServer   *http.Server
	service      app.DaemonService
	initErr      error
	token        string
	requireToken bool
	limiter      *ratelimiter.MapLimiter
	metrics      *metrics.Recorder
	logger       *slog.Logger
	methods      map[string]methodHandler
}

func NewServer(svc app.DaemonService, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultRPCAddr
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RequireToken && opts.Token == "" {
		return &Server{initErr: errors.New("ANCHOR_RPC_TOKEN is required unless ANCHOR_REQUIRE_RPC_TOKEN=false or ANCHOR_ENV is test/development/local")}
	}

	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:              opts.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		service:      svc,
		token:        opts.Token,
		requireToken: opts.RequireToken,
		limiter:      ratelimiter.New(opts.RPS, opts.Burst, 10*time.Minute),
		metrics:      opts.Metrics,
		logger:       opts.Logger.With("component", "rpc"),
	}
	s.methods = s.methodTable()
	if s.token == "" && !s.requireToken {
		s.logger.Warn("ANCHOR_RPC_TOKEN is not set; RPC auth disabled")
	}
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/rpc", s.handleRPC)
	if opts.Gatherer != nil {
		mux.Handle("/metrics", s.guard(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
	return s
}

// Handler returns the HTTP surface without binding a listener.
func (s *Server) Handler() http.Handler {
	if s.httpServer == nil {
		return http.NotFoundHandler()
	}
	return s.httpServer.Handler
}

func (s *Server) Addr() string {
	if s.httpServer == nil {
		return ""
	}
	return s.httpServer.Addr
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s.initErr != nil {
		return s.initErr
	}
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.initErr != nil {
		_ = ln.Close()
		return s.initErr
	}
	errCh := make(chan error, 1)
	go func() {
		err := s.httpServer.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
			return
		}
		errCh <- err
	}()
	s.logger.Info("rpc listening", "addr", ln.Addr().String())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.applyCORS(w, r) {
		return
	}
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// guard applies CORS and auth in front of a plain handler.
func (s *Server) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.applyCORS(w, r) {
			return
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if !s.authorize(w, r) {
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) applyCORS(w http.ResponseWriter, r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin != "" && !isAllowedOrigin(origin) {
		http.Error(w, "origin is not allowed", http.StatusForbidden)
		return false
	}
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
	}
	w.Header().Set("Vary", "Origin")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization, "+tokenHeader)
	return true
}

func (s *Server) authorize(w http.ResponseWriter, r *http.Request) bool {
	if s.token == "" && !s.requireToken {
		return true
	}
	if extractToken(r) != s.token {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

func extractToken(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(tokenHeader)); token != "" {
		return token
	}
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[len("bearer "):])
	}
	return ""
}

func isAllowedOrigin(raw string) bool {
	if raw == "null" {
		allowNull, _ := parseBoolEnv("ANCHOR_ALLOW_NULL_ORIGIN")
		return allowNull
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch strings.TrimSpace(u.Hostname()) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}

// TokenFromEnv resolves the RPC token and whether one is mandatory.
// ANCHOR_RPC_TOKEN=auto generates a fresh token and, when
// ANCHOR_RPC_TOKEN_FILE is set, writes it there for local clients.
func TokenFromEnv() (token string, required bool, err error) {
	required = requiresToken()
	token = strings.TrimSpace(os.Getenv("ANCHOR_RPC_TOKEN"))
	if strings.EqualFold(token, "auto") {
		token, err = generateToken()
		if err != nil {
			return "", required, err
		}
		if err := persistToken(token); err != nil {
			return "", required, err
		}
	}
	return token, required, nil
}

func requiresToken() bool {
	if v, ok := parseBoolEnv("ANCHOR_REQUIRE_RPC_TOKEN"); ok {
		if !v && !isNonProdEnv() {
			return true
		}
		return v
	}
	return !isNonProdEnv()
}

func isNonProdEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ANCHOR_ENV"))) {
	case "test", "testing", "dev", "development", "local":
		return true
	default:
		return false
	}
}

func parseBoolEnv(name string) (bool, bool) {
	switch strings.TrimSpace(strings.ToLower(os.Getenv(name))) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "rpc_" + hex.EncodeToString(buf), nil
}

func persistToken(token string) error {
	path := strings.TrimSpace(os.Getenv("ANCHOR_RPC_TOKEN_FILE"))
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}
