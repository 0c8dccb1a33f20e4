package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sauceqa/logincheck/internal/config"
	"github.com/sauceqa/logincheck/internal/handlers"
	"github.com/sauceqa/logincheck/internal/repository"
	"github.com/sauceqa/logincheck/internal/services"
)

// ServerDependencies holds all dependencies needed for the fixture site
type ServerDependencies struct {
	ServerConfig     config.ServerConfig
	LoginHandler     http.Handler
	InventoryHandler http.Handler
	LogoutHandler    http.Handler
}

// BuildServerDependencies wires the fixture site on top of the demo accounts
func BuildServerDependencies(serverConfig config.ServerConfig) (ServerDependencies, error) {
	deps := ServerDependencies{ServerConfig: serverConfig}

	auth := services.NewAuthService(repository.NewDemoAccountRepository(), repository.NewSessionRepository())

	loginHandler, err := handlers.NewLoginHandler(auth)
	if err != nil {
		return deps, fmt.Errorf("failed to create login handler: %w", err)
	}
	deps.LoginHandler = loginHandler

	inventoryHandler, err := handlers.NewInventoryHandler(auth, handlers.DefaultItems)
	if err != nil {
		return deps, fmt.Errorf("failed to create inventory handler: %w", err)
	}
	deps.InventoryHandler = inventoryHandler

	deps.LogoutHandler = handlers.NewLogoutHandler(auth)
	return deps, nil
}

// RunServe starts the fixture site and blocks until SIGINT/SIGTERM
func RunServe(deps ServerDependencies) error {
	listener, server, err := StartServer(deps)
	if err != nil {
		return err
	}
	defer listener.Close()

	return WaitForShutdown(server, nil)
}

// StartServer creates and starts the HTTP server, returning the listener and server
func StartServer(deps ServerDependencies) (net.Listener, *http.Server, error) {
	mux := http.NewServeMux()
	mux.Handle("/", deps.LoginHandler)
	mux.Handle(handlers.InventoryPath, deps.InventoryHandler)
	mux.Handle("/logout", deps.LogoutHandler)

	addr := fmt.Sprintf(":%s", deps.ServerConfig.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create listener: %w", err)
	}

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("fixture site listening", "addr", listener.Addr().String())
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "err", err)
		}
	}()

	return listener, server, nil
}

// BaseURL returns the loopback URL, with trailing slash, for a listener started by StartServer
func BaseURL(listener net.Listener) string {
	port := listener.Addr().(*net.TCPAddr).Port
	return fmt.Sprintf("http://127.0.0.1:%d/", port)
}

// StartFixture starts the fixture site on a free port and returns its base URL
// together with a function that stops it.
func StartFixture() (string, func() error, error) {
	deps, err := BuildServerDependencies(config.ServerConfig{Port: "0"})
	if err != nil {
		return "", nil, err
	}
	listener, server, err := StartServer(deps)
	if err != nil {
		return "", nil, err
	}

	stop := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		defer listener.Close()
		return server.Shutdown(ctx)
	}
	return BaseURL(listener), stop, nil
}

// WaitForShutdown waits for a shutdown signal and gracefully shuts down the server
// If shutdown channel is nil, a new channel will be created and registered with signal.Notify
func WaitForShutdown(server *http.Server, shutdown chan os.Signal) error {
	return WaitForShutdownWithTimeout(server, shutdown, 30*time.Second)
}

// WaitForShutdownWithTimeout allows specifying a custom shutdown timeout (primarily for testing)
func WaitForShutdownWithTimeout(server *http.Server, shutdown chan os.Signal, shutdownTimeout time.Duration) error {
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(shutdown)
	}

	sig := <-shutdown
	log.Info("shutting down fixture site", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		// http.Server.Close does not surface listener close errors, so this
		// only fails if the server is in an unusable state.
		if err := server.Close(); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	log.Info("fixture site stopped")
	return nil
}
