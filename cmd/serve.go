package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/taskfewer/internal/instrumentation"
	"github.com/teemow/taskfewer/internal/logging"
	"github.com/teemow/taskfewer/internal/server"
	"github.com/teemow/taskfewer/internal/task"
	"github.com/teemow/taskfewer/internal/tools/task_tools"
)

const (
	// ModeBoth runs the REST API and the MCP server concurrently.
	ModeBoth = "both"
	// ModeHTTP runs only the REST API.
	ModeHTTP = "http"
	// ModeMCP runs only the MCP server.
	ModeMCP = "mcp"

	// TransportStdio serves MCP over standard input/output.
	TransportStdio = "stdio"
	// TransportStreamableHTTP serves MCP over the streamable HTTP transport.
	TransportStreamableHTTP = "streamable-http"
)

// serveOptions holds the resolved configuration for the serve command.
type serveOptions struct {
	debugMode bool
	mode      string
	transport string
	httpAddr  string
	mcpAddr   string
	storeFile string

	// Metrics server configuration
	metricsEnabled bool
	metricsAddr    string
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the task service",
		Long: `Start the task service with a REST API, an MCP server, or both.

The REST API exposes the task operations as JSON endpoints:
  GET    /tasks                  List all tasks
  POST   /tasks                  Create a task
  GET    /tasks/{id}             Fetch a single task
  PATCH  /tasks/{id}/complete    Mark a task as completed
  DELETE /tasks/{id}             Delete a task

The MCP server exposes the same operations as tools for AI assistants,
over one of two transports:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Both adapters share a single JSON store file, so tasks created over HTTP
are immediately visible to MCP clients and vice versa.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loadServeEnvVars(cmd, &opts)
			return runServe(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&opts.mode, "mode", ModeBoth, "Which adapters to run: both, http, or mcp")
	cmd.Flags().StringVar(&opts.transport, "transport", TransportStdio, "MCP transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", server.DefaultHTTPAddr, "REST API address. Can also use TASKFEWER_HTTP_ADDR env var.")
	cmd.Flags().StringVar(&opts.mcpAddr, "mcp-addr", ":8081", "MCP server address (for streamable-http transport). Can also use TASKFEWER_MCP_ADDR env var.")
	cmd.Flags().StringVar(&opts.storeFile, "store-file", task.DefaultStoreFile, "Path to the JSON store file. Can also use TASKFEWER_STORE_FILE env var.")

	// Metrics server flags
	cmd.Flags().BoolVar(&opts.metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// loadServeEnvVars applies environment variables for flags the user did not
// set explicitly.
func loadServeEnvVars(cmd *cobra.Command, opts *serveOptions) {
	if !cmd.Flags().Changed("http-addr") {
		if addr := os.Getenv("TASKFEWER_HTTP_ADDR"); addr != "" {
			opts.httpAddr = addr
		}
	}
	if !cmd.Flags().Changed("mcp-addr") {
		if addr := os.Getenv("TASKFEWER_MCP_ADDR"); addr != "" {
			opts.mcpAddr = addr
		}
	}
	if !cmd.Flags().Changed("store-file") {
		if path := os.Getenv("TASKFEWER_STORE_FILE"); path != "" {
			opts.storeFile = path
		}
	}
	if !cmd.Flags().Changed("metrics-enabled") {
		if os.Getenv("METRICS_ENABLED") == "false" {
			opts.metricsEnabled = false
		}
	}
	if !cmd.Flags().Changed("metrics-addr") {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			opts.metricsAddr = addr
		}
	}
}

func runServe(opts serveOptions) error {
	switch opts.mode {
	case ModeBoth, ModeHTTP, ModeMCP:
	default:
		return fmt.Errorf("unsupported mode: %s (supported: both, http, mcp)", opts.mode)
	}
	switch opts.transport {
	case TransportStdio, TransportStreamableHTTP:
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", opts.transport)
	}

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Logs go to stderr, keeping stdout free for the stdio MCP transport.
	logger := logging.Setup(opts.debugMode)

	// When the process is a pure stdio MCP server it usually runs as a
	// short-lived client subprocess, so skip the dedicated metrics port.
	stdioOnly := opts.mode == ModeMCP && opts.transport == TransportStdio

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	if err := instrConfig.Validate(); err != nil {
		return fmt.Errorf("invalid instrumentation config: %w", err)
	}

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	// Start metrics server if enabled and not in pure stdio mode
	var metricsServer *server.MetricsServer
	if !stdioOnly && opts.metricsEnabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    opts.metricsAddr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
			logger.Info("metrics server started", "addr", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	// Wire the shared store and service behind a single server context
	store := task.NewFileStore(opts.storeFile, logging.NewSlogAdapter(logger))
	service := task.NewService(store)
	serverContext := server.NewServerContext(shutdownCtx, service)

	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging))
	}

	defer func() {
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics server shutdown failed", logging.Err(err))
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			logger.Error("server context shutdown failed", logging.Err(err))
		}
	}()

	// A server exit (error or clean) ends the process, so the channel holds
	// at most one value per running adapter.
	serverDone := make(chan error, 2)

	var httpSrv *server.HTTPServer
	if opts.mode == ModeBoth || opts.mode == ModeHTTP {
		healthChecker := server.NewHealthChecker(serverContext)
		healthChecker.SetReady(true)
		httpSrv = server.NewHTTPServer(serverContext, healthChecker, logger)

		go func() {
			logger.Info("starting REST API", "addr", opts.httpAddr, "store", store.Path())
			if err := httpSrv.Start(opts.httpAddr); err != nil && err != http.ErrServerClosed {
				serverDone <- fmt.Errorf("REST server stopped with error: %w", err)
				return
			}
			serverDone <- nil
		}()
	}

	var mcpHTTPSrv *http.Server
	if opts.mode == ModeBoth || opts.mode == ModeMCP {
		mcpSrv := mcpserver.NewMCPServer("taskfewer", version,
			mcpserver.WithToolCapabilities(true),
		)
		if err := task_tools.RegisterTaskTools(mcpSrv, serverContext); err != nil {
			return fmt.Errorf("failed to register task tools: %w", err)
		}

		switch opts.transport {
		case TransportStdio:
			go func() {
				logger.Info("starting MCP server", "transport", opts.transport, "store", store.Path())
				if err := mcpserver.ServeStdio(mcpSrv); err != nil {
					serverDone <- fmt.Errorf("MCP server stopped with error: %w", err)
					return
				}
				serverDone <- nil
			}()
		case TransportStreamableHTTP:
			streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
				mcpserver.WithEndpointPath("/mcp"),
			)
			mcpHTTPSrv = &http.Server{
				Addr:              opts.mcpAddr,
				Handler:           streamable,
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				logger.Info("starting MCP server", "transport", opts.transport, "addr", opts.mcpAddr, "store", store.Path())
				if err := mcpHTTPSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					serverDone <- fmt.Errorf("MCP server stopped with error: %w", err)
					return
				}
				serverDone <- nil
			}()
		}
	}

	stopServers := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var errs []error
		if httpSrv != nil {
			errs = append(errs, httpSrv.Shutdown(ctx))
		}
		if mcpHTTPSrv != nil {
			errs = append(errs, mcpHTTPSrv.Shutdown(ctx))
		}
		return errors.Join(errs...)
	}

	select {
	case <-shutdownCtx.Done():
		logger.Info("shutdown signal received, stopping servers")
		if err := stopServers(); err != nil {
			return fmt.Errorf("error during shutdown: %w", err)
		}
	case err := <-serverDone:
		// One adapter exiting (including a stdio client hanging up) ends
		// the whole process.
		stopErr := stopServers()
		if err != nil {
			return err
		}
		if stopErr != nil {
			return fmt.Errorf("error during shutdown: %w", stopErr)
		}
	}

	logger.Info("servers gracefully stopped")
	return nil
}
