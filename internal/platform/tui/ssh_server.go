package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/pengulab/pengu-arcade/internal/bus"
	"github.com/pengulab/pengu-arcade/internal/config"
	"github.com/pengulab/pengu-arcade/internal/core"
	"github.com/pengulab/pengu-arcade/internal/devhost"
	"github.com/pengulab/pengu-arcade/internal/games/pengu"
	"github.com/pengulab/pengu-arcade/internal/identity"
	"github.com/pengulab/pengu-arcade/internal/registry"
	"github.com/pengulab/pengu-arcade/internal/sdk"
	"github.com/pengulab/pengu-arcade/internal/store"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.pengu/host_key.
	HostKeyPath string

	// DBPath is the path to the state and scores database.
	DBPath string

	// Multiplayer serves every session from one shared two-player roster
	// instead of giving each connection its own single-player slot.
	Multiplayer bool

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.pengu/pengu.db",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server. All sessions share one dev host, so two
// connections in multiplayer mode land in the same game.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *store.Store
	host   *devhost.Host
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "pengu-ssh",
	})

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open database, state will not survive restarts", "error", err)
		st = store.NewMemory()
	}

	host := devhost.New(devhost.Options{
		GameName:    "pengu",
		Multiplayer: cfg.Multiplayer,
		Store:       st,
		Logger:      logger,
	})
	host.Start()

	srv := &SSHServer{
		config: cfg,
		store:  st,
		host:   host,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".pengu", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		host.Stop()
		st.Close()
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session. The session
// gets its own pipe into the shared host plus its own facade and game.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: 60,
		Seed:     time.Now().UnixNano(),
	}

	clientEnd, hostEnd := bus.Pipe()
	wctx := &identity.WindowContext{
		Globals: map[string]string{"playerName": sshSession.User()},
	}
	s.host.RegisterClient(hostEnd, wctx.ClientID())
	facade := sdk.New(clientEnd, wctx, s.config.Multiplayer, s.logger)

	created, err := registry.Create("pengu")
	game, ok := created.(*pengu.Game)
	if err != nil || !ok {
		game = pengu.New(config.DefaultPenguConfig())
	}

	model := NewModel(game, facade, s.store, cfg)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
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

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.host.Stop()
	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
