package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pengulab/pengu-arcade/internal/bus"
	"github.com/pengulab/pengu-arcade/internal/devhost"
	"github.com/pengulab/pengu-arcade/internal/store"
)

var (
	flagServeAddr   string
	flagLogFile     string
	flagMultiplayer bool
	flagNoMuteDemo  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the WebSocket dev host",
	Long: `Start the dev host as a WebSocket server. External game clients connect
to ws://<addr>/ws, complete the ready handshake, and the host persists their
state, assigns player slots, and fans saved states out to every window.

Examples:
  pengu serve                      # Listen on :8787
  pengu serve --addr :9000
  pengu serve --multiplayer        # Two-player roster shared across clients
  pengu serve --log-file host.log  # Rotate logs to a file`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", ":8787", "HTTP listen address (host:port)")
	serveCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Log to a rotating file instead of stderr")
	serveCmd.Flags().BoolVar(&flagMultiplayer, "multiplayer", false, "Serve a shared two-player session")
	serveCmd.Flags().BoolVar(&flagNoMuteDemo, "no-mute-demo", false, "Skip the demo mute/unmute cycle on first connect")
}

func runServe(_ *cobra.Command, _ []string) {
	var logOut io.Writer = os.Stderr
	if flagLogFile != "" {
		logOut = &lumberjack.Logger{
			Filename:   flagLogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
		}
	}
	logger := log.NewWithOptions(logOut, log.Options{
		ReportTimestamp: true,
		Prefix:          "pengu-host",
	})

	st, err := store.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database, state will not survive restarts", "error", err)
		st = store.NewMemory()
	}
	defer st.Close()

	host := devhost.New(devhost.Options{
		GameName:        "pengu",
		Multiplayer:     flagMultiplayer,
		Store:           st,
		Logger:          logger,
		DisableMuteDemo: flagNoMuteDemo,
	})
	host.Start()
	defer host.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, upErr := bus.Upgrader.Upgrade(w, r, nil)
		if upErr != nil {
			logger.Warn("upgrade failed", "remote", r.RemoteAddr, "error", upErr)
			return
		}
		ep := bus.NewWSEndpoint(conn)
		clientID := host.RegisterClient(ep, r.URL.Query().Get("client"))
		logger.Info("client connected", "client", clientID, "remote", r.RemoteAddr)

		go func() {
			<-ep.Done()
			logger.Info("client disconnected", "client", clientID)
		}()
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	server := &http.Server{
		Addr:              flagServeAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("dev host listening", "addr", flagServeAddr, "multiplayer", flagMultiplayer)
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("server error", "error", serveErr)
		}
	}()

	<-done
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if shutErr := server.Shutdown(ctx); shutErr != nil {
		logger.Error("shutdown error", "error", shutErr)
	}
}
