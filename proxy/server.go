// Package proxy serves a terminal over HTTP for remote.Client.
package proxy

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rustyeddy/mt5bridge/journal"
	"github.com/rustyeddy/mt5bridge/mql"
	"github.com/rustyeddy/mt5bridge/terminal"
	"github.com/rustyeddy/mt5bridge/terminal/remote"
)

// Server is an http.Handler exposing one terminal. Terminal calls are
// serialized; the wrapped session is not safe for concurrent use.
type Server struct {
	term    terminal.Terminal
	auth    terminal.Authenticator
	creds   *mql.AccountCredentials
	journal journal.Journal
	log     *zap.Logger
	reg     *prometheus.Registry
	metrics *metrics
	engine  *gin.Engine

	mu sync.Mutex

	tokensMu sync.Mutex
	tokens   map[string]struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithAuthenticator checks logins against a.
func WithAuthenticator(a terminal.Authenticator) Option {
	return func(s *Server) { s.auth = a }
}

// WithCredentials accepts exactly these credentials when no authenticator
// is available.
func WithCredentials(c mql.AccountCredentials) Option {
	return func(s *Server) { s.creds = &c }
}

// WithJournal records every check and send outcome.
func WithJournal(j journal.Journal) Option {
	return func(s *Server) { s.journal = j }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithRegistry registers the metrics on reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) { s.reg = reg }
}

// New wraps term. Logins go to term itself when it implements
// terminal.Authenticator and neither WithAuthenticator nor WithCredentials
// was given.
func New(term terminal.Terminal, opts ...Option) *Server {
	s := &Server{
		term:   term,
		log:    zap.NewNop(),
		tokens: map[string]struct{}{},
	}
	for _, o := range opts {
		o(s)
	}
	if s.auth == nil && s.creds == nil {
		if a, ok := term.(terminal.Authenticator); ok {
			s.auth = a
		}
	}
	if s.reg == nil {
		s.reg = prometheus.NewRegistry()
	}
	s.metrics = newMetrics(s.reg)

	gin.SetMode(gin.ReleaseMode)
	s.engine = gin.New()
	s.engine.UseRawPath = true
	s.engine.Use(gin.Recovery(), s.observe)
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("proxy_listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("proxy_stopped")
	return nil
}

// observe records metrics and a debug line for every request.
func (s *Server) observe(c *gin.Context) {
	start := time.Now()
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	route = c.Request.Method + " " + route
	status := c.Writer.Status()
	took := time.Since(start)

	s.metrics.observe(route, status, took.Seconds())
	s.log.Debug("proxy_request",
		zap.String("route", route),
		zap.Int("status", status),
		zap.Duration("took", took),
	)
}

func (s *Server) routes() {
	e := s.engine
	e.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	e.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})))
	e.POST(remote.PathLogin, s.login)

	p := e.Group("", s.requireToken)
	p.POST(remote.PathLogout, s.logout)

	p.GET(remote.PathAccount, s.accountInfo)
	p.GET(remote.PathTerminal, s.terminalInfo)
	p.GET(remote.PathVersion, s.version)

	p.GET(remote.PathSymbolsTotal, s.symbolsTotal)
	p.GET(remote.PathSymbols, s.symbolsGet)
	p.GET(remote.PathSymbols+":symbol", s.symbolInfo)
	p.GET(remote.PathSymbols+":symbol/tick", s.symbolInfoTick)
	p.POST(remote.PathSymbols+":symbol/select", s.symbolSelect)

	p.GET(remote.PathRatesFrom, s.copyRatesFrom)
	p.GET(remote.PathRatesFromPos, s.copyRatesFromPos)
	p.GET(remote.PathRatesRange, s.copyRatesRange)
	p.GET(remote.PathTicksFrom, s.copyTicksFrom)
	p.GET(remote.PathTicksRange, s.copyTicksRange)

	p.GET(remote.PathOrdersTotal, s.ordersTotal)
	p.GET(remote.PathOrders, s.ordersGet)
	p.GET(remote.PathCalcMargin, s.orderCalcMargin)
	p.GET(remote.PathCalcProfit, s.orderCalcProfit)
	p.POST(remote.PathOrderCheck, s.orderCheck)
	p.POST(remote.PathOrderSend, s.orderSend)

	p.GET(remote.PathPositionsTotal, s.positionsTotal)
	p.GET(remote.PathPositions, s.positionsGet)

	p.GET(remote.PathHistoryOrdersTot, s.historyOrdersTotal)
	p.GET(remote.PathHistoryOrders, s.historyOrdersGet)
	p.GET(remote.PathHistoryDealsTot, s.historyDealsTotal)
	p.GET(remote.PathHistoryDeals, s.historyDealsGet)
}

func bearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

func (s *Server) requireToken(c *gin.Context) {
	tok := bearer(c)
	s.tokensMu.Lock()
	_, ok := s.tokens[tok]
	s.tokensMu.Unlock()
	if tok == "" || !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

var errLoginRejected = &mql.Error{Code: mql.RuntimeAuthFailed, Message: mql.InitializeFailedMessage}

func (s *Server) checkLogin(ctx context.Context, req remote.LoginRequest) error {
	creds := mql.AccountCredentials{Login: req.Login, Password: req.Password, Server: req.Server}
	switch {
	case s.auth != nil:
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.auth.Login(ctx, creds, time.Duration(req.TimeoutMs)*time.Millisecond)
	case s.creds != nil:
		ok := creds.Login == s.creds.Login &&
			creds.Server == s.creds.Server &&
			subtle.ConstantTimeCompare([]byte(creds.Password), []byte(s.creds.Password)) == 1
		if !ok {
			return errLoginRejected
		}
		return nil
	default:
		return errLoginRejected
	}
}

func (s *Server) login(c *gin.Context) {
	var req remote.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid login payload: " + err.Error()})
		return
	}
	if err := s.checkLogin(c.Request.Context(), req); err != nil {
		s.log.Warn("proxy_login_rejected", zap.Int64("login", req.Login), zap.String("server", req.Server), zap.Error(err))
		s.writeError(c, err)
		return
	}

	tok := uuid.NewString()
	s.tokensMu.Lock()
	s.tokens[tok] = struct{}{}
	s.tokensMu.Unlock()

	s.log.Info("proxy_login", zap.Int64("login", req.Login), zap.String("server", req.Server))
	c.JSON(http.StatusOK, tok)
}

func (s *Server) logout(c *gin.Context) {
	s.tokensMu.Lock()
	delete(s.tokens, bearer(c))
	s.tokensMu.Unlock()
	c.Status(http.StatusNoContent)
}

// statusFor maps a terminal error code to an HTTP status.
func statusFor(code mql.RuntimeError) int {
	switch code {
	case mql.RuntimeInvalidParams, mql.RuntimeNotFound, mql.RuntimeUnsupported:
		return http.StatusBadRequest
	case mql.RuntimeAuthFailed:
		return http.StatusUnauthorized
	}
	return http.StatusBadGateway
}

func (s *Server) writeError(c *gin.Context, err error) {
	var te *mql.Error
	switch {
	case errors.As(err, &te):
		s.metrics.terminalErrors.WithLabelValues(te.Code.String()).Inc()
		c.JSON(statusFor(te.Code), te)
	case errors.Is(err, mql.ErrDecode):
		s.log.Error("proxy_decode_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		s.log.Error("proxy_terminal_failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

// bindQuery decodes and validates the query string into q, answering 400 on
// failure.
func bindQuery(c *gin.Context, q any) bool {
	if err := c.ShouldBindQuery(q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// serve runs fn with the terminal lock held and writes its result.
func serve[T any](s *Server, c *gin.Context, fn func(ctx context.Context) (T, error)) {
	s.mu.Lock()
	out, err := fn(c.Request.Context())
	s.mu.Unlock()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
