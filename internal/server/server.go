package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/navigationiq/navigator/internal/api"
	"github.com/navigationiq/navigator/internal/config"
	"github.com/navigationiq/navigator/internal/generate"
	"github.com/navigationiq/navigator/internal/handbook"
	"github.com/navigationiq/navigator/internal/home"
	"github.com/navigationiq/navigator/internal/llmcall"
	"github.com/navigationiq/navigator/internal/prompts"
	"github.com/navigationiq/navigator/internal/providers"
	"github.com/navigationiq/navigator/internal/server/endpoints"
	"github.com/navigationiq/navigator/internal/svcctx"
	"github.com/navigationiq/navigator/internal/workspace"
)

// Server is the main Navigator HTTP server.
// The workspace (handbook, scenarios, flows) is built by Init; until then
// only health and static routes answer.
type Server struct {
	httpServer *http.Server
	registry   *providers.Registry
	ownsReg    bool
	generator  *generate.Generator
	callStore  *llmcall.Store
	configMgr  *config.Manager
	home       *home.Dir
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry
	handler          http.Handler

	mu        sync.RWMutex
	running   bool
	workspace *workspace.Workspace
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Home is the navigator home directory (exports, prompt overrides)
	Home *home.Dir
	// Registry overrides the provider registry built from config
	Registry *providers.Registry
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	registry := cfg.Registry
	if registry == nil {
		registry = providers.NewRegistry()
		registry.SetLogger(cfg.Logger)
	}

	var genCfg generate.Config
	if cfg.ConfigManager != nil {
		c := cfg.ConfigManager.Get()
		if cfg.Registry == nil {
			registry.Reload(c.ToProviderRegistryConfig())
		}
		genCfg = c.ToGenerateConfig()
	}

	callStore := llmcall.NewStore(llmcall.DefaultCapacity)
	recorder := llmcall.NewRecorder(callStore, cfg.Logger)

	s := &Server{
		registry:  registry,
		ownsReg:   cfg.Registry == nil,
		generator: generate.New(registry, recorder, genCfg, cfg.Logger),
		callStore: callStore,
		configMgr: cfg.ConfigManager,
		home:      cfg.Home,
		logger:    cfg.Logger,
	}

	if cfg.ConfigManager != nil {
		// Watch for config changes
		cfg.ConfigManager.OnChange(s.applyConfig)
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}
	s.handler = s.routes()

	s.httpServer = &http.Server{
		Addr:        net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:     s.handler,
		ReadTimeout: 30 * time.Second,
		// Waited submissions block until generation settles.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// applyConfig pushes a reloaded config into the running services.
func (s *Server) applyConfig(c *config.Config) {
	if s.ownsReg {
		s.registry.Reload(c.ToProviderRegistryConfig())
		s.logger.Info("provider registry reloaded from config")
	}
	s.generator.SetConfig(c.ToGenerateConfig())
	if ws := s.Workspace(); ws != nil {
		ws.SetOrgType(c.Defaults.OrganizationType)
	}
}

// Init loads the handbook and builds the workspace. It is idempotent.
func (s *Server) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.workspace != nil {
		return nil
	}

	hb, err := handbook.New(s.logger)
	if err != nil {
		return fmt.Errorf("failed to load handbook: %w", err)
	}
	s.logger.Info("handbook loaded", "sections", len(hb.Sections()))

	resolver := prompts.NewResolver(s.logger)
	workspace.RegisterPrompts(resolver)

	opts := workspace.Options{
		Handbook:  hb,
		Generator: s.generator,
		Resolver:  resolver,
		Logger:    s.logger,
	}
	if s.configMgr != nil {
		opts.OrgType = s.configMgr.Get().Defaults.OrganizationType
	}
	if s.home != nil {
		if err := s.home.EnsureExists(); err != nil {
			return err
		}
		if _, err := resolver.LoadOverrides(s.home.PromptsDir()); err != nil {
			return err
		}
		opts.ExportDir = s.home.ExportsDir()
	}

	ws, err := workspace.New(opts)
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	s.workspace = ws

	// Create services struct for context enrichment
	s.services = &svcctx.Services{
		Workspace:     ws,
		Generator:     s.generator,
		Registry:      s.registry,
		Resolver:      resolver,
		ConfigManager: s.configMgr,
		Logger:        s.logger,
		Home:          s.home,
		LLMCallStore:  s.callStore,
	}
	if !s.generator.Available() {
		s.logger.Warn("no LLM provider configured; flows will answer with setup instructions")
	}
	return nil
}

// Start initializes the workspace and serves HTTP.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	if err := s.Init(); err != nil {
		s.setNotRunning()
		return err
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.setNotRunning()
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			_ = s.shutdown()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown stops the HTTP server and cancels in-flight flows.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	if ws := s.Workspace(); ws != nil {
		ws.Close()
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Workspace returns the workspace.
// Returns nil if the server hasn't been initialized yet.
func (s *Server) Workspace() *workspace.Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workspace
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the HTTP handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}

// LLMCalls returns the call history store.
func (s *Server) LLMCalls() *llmcall.Store {
	return s.callStore
}
