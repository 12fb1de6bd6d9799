package tui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/loop"
	"github.com/vovakirdan/tui-snake/internal/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.snake/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// MaxConnsPerIP limits concurrent sessions from one address.
	// Zero means no limit.
	MaxConnsPerIP int

	// Game is the per-session game configuration. Zero board dimensions
	// fit the board to the client's terminal.
	Game core.RuntimeConfig

	// Theme sets the frame colors.
	Theme loop.Theme

	// Logger receives server and session events. Nil logs to stderr.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:       ":23234",
		IdleTimeout:   30 * time.Minute,
		MaxConnsPerIP: 4,
		Game:          core.DefaultConfig(),
		Theme:         loop.DefaultTheme(),
	}
}

// SSHServer serves one independent snake session per SSH connection.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	logger *log.Logger

	connMu sync.Mutex
	conns  map[string]int // Active sessions per remote IP
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "snake-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		logger: logger,
		conns:  make(map[string]int),
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".snake", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if err := os.MkdirAll(hostKeyDir, 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	// Middlewares run last to first: the limiter sees the session before
	// anything else, the game handler runs innermost.
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.DebugLevel),
			srv.loggingMiddleware,
			srv.limitMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a game session for each SSH connection. The session's
// loop is stopped when the connection goes away.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sshSession.Pty()

	cfg := s.config.Game
	if cfg.BoardW == 0 && cfg.BoardH == 0 {
		cfg.BoardW, cfg.BoardH = FitBoard(pty.Window.Width, pty.Window.Height)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	cfg = cfg.Normalized()

	store, err := storage.OpenSession()
	if err != nil {
		s.logger.Warn("could not open session scoreboard", "error", err)
		store = nil
	}

	logger := s.logger.With("user", sshSession.User())
	model := NewModel(snake.New(cfg), Options{
		Loop: loop.Options{
			Interval: cfg.Interval,
			CellSize: cfg.CellSize,
			Theme:    s.config.Theme,
			Logger:   logger,
		},
		Store:  store,
		Player: sshSession.User(),
	})

	go func() {
		<-sshSession.Context().Done()
		model.Close()
		if store != nil {
			store.Close()
		}
		logger.Debug("session released")
	}()

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// limitMiddleware refuses sessions beyond MaxConnsPerIP from one address.
func (s *SSHServer) limitMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		ip := remoteIP(sshSession.RemoteAddr())
		if !s.acquire(ip) {
			s.logger.Warn("connection refused", "ip", ip, "limit", s.config.MaxConnsPerIP)
			wish.Fatalf(sshSession, "Too many active sessions from your address (limit %d).\n", s.config.MaxConnsPerIP)
			return
		}
		defer s.release(ip)
		next(sshSession)
	}
}

func (s *SSHServer) acquire(ip string) bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.config.MaxConnsPerIP > 0 && s.conns[ip] >= s.config.MaxConnsPerIP {
		return false
	}
	s.conns[ip]++
	return true
}

func (s *SSHServer) release(ip string) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	s.conns[ip]--
	if s.conns[ip] <= 0 {
		delete(s.conns, ip)
	}
}

func remoteIP(addr net.Addr) string {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return tcp.IP.String()
	}
	return addr.String()
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-done:
	case err := <-errc:
		return fmt.Errorf("ssh server: %w", err)
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
