// ABOUTME: CLI entrypoint for clusterlens with server, TUI, and structure-dump modes.
// ABOUTME: Wires together the session store, sqlite library, AI client, kube client, and signal handling.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/clusterlens/clusterlens/ai"
	"github.com/clusterlens/clusterlens/flowchart"
	"github.com/clusterlens/clusterlens/kube"
	"github.com/clusterlens/clusterlens/server"
	"github.com/clusterlens/clusterlens/store"
	"github.com/clusterlens/clusterlens/tui"
)

var version = "dev"

// config holds all CLI configuration parsed from flags and positional arguments.
type config struct {
	serverMode  bool
	tuiMode     bool
	bind        string
	kubeconfig  string
	noKube      bool
	showVersion bool
	diagramFile string
}

func main() {
	loadDotEnv(".env")

	cfg := parseFlags()

	if cfg.showVersion {
		fmt.Printf("clusterlens %s\n", version)
		os.Exit(0)
	}

	os.Exit(run(cfg))
}

// parseFlags parses command-line flags and returns a populated config.
func parseFlags() config {
	var cfg config

	fs := flag.NewFlagSet("clusterlens", flag.ContinueOnError)
	fs.BoolVar(&cfg.serverMode, "server", false, "Start HTTP server mode")
	fs.BoolVar(&cfg.tuiMode, "tui", false, "Browse a diagram file in the terminal")
	fs.StringVar(&cfg.bind, "bind", "", "Listen address (overrides CLUSTERLENS_BIND)")
	fs.StringVar(&cfg.kubeconfig, "kubeconfig", "", "Kubeconfig path for cluster topology")
	fs.BoolVar(&cfg.noKube, "no-kube", false, "Skip cluster connection")
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		printHelp(os.Stderr, version)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if fs.NArg() > 0 {
		cfg.diagramFile = fs.Arg(0)
	}

	return cfg
}

// run dispatches to the appropriate mode based on the config.
// Returns an exit code: 0 for success, 1 for failure.
func run(cfg config) int {
	if cfg.serverMode {
		return runServer(cfg)
	}

	if cfg.diagramFile == "" {
		printHelp(os.Stderr, version)
		return 0
	}

	if cfg.tuiMode {
		return runTUI(cfg)
	}

	return dumpStructure(cfg)
}

// runServer starts the dashboard HTTP server with graceful shutdown.
func runServer(cfg config) int {
	sc, err := server.ConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if cfg.bind != "" {
		sc.Bind = cfg.bind
		// The flag bypasses ConfigFromEnv's checks, so the loopback rule
		// must be re-applied to the overridden address.
		if err := server.ValidateBind(sc.Bind, sc.AllowRemote); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	}
	if cfg.kubeconfig != "" {
		sc.Kubeconfig = cfg.kubeconfig
	}

	if err := os.MkdirAll(sc.Home, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: create data directory: %v\n", err)
		return 1
	}

	sessions := store.NewSessionStore(200, 24*time.Hour)
	stopCleanup := sessions.StartCleanup(10 * time.Minute)
	defer stopCleanup()

	opts := []server.Option{
		server.WithAddr(sc.Bind),
	}
	if sc.AuthToken != "" {
		opts = append(opts, server.WithAuthToken(sc.AuthToken))
	}

	idx, err := store.OpenDiagramIndex(filepath.Join(sc.Home, "diagrams.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: open diagram library: %v\n", err)
		return 1
	}
	defer idx.Close()
	opts = append(opts, server.WithDiagramIndex(idx))

	if sc.OpenAIKey != "" {
		opts = append(opts, server.WithAIClient(ai.NewClient(sc.OpenAIKey, sc.Model, sc.BaseURL)))
	} else {
		log.Printf("ai disabled reason=no-api-key")
	}

	if !cfg.noKube {
		client, err := kube.Connect(sc.Kubeconfig)
		if err != nil {
			log.Printf("kube disabled reason=connect-failed err=%v", err)
		} else {
			opts = append(opts, server.WithKubeClient(client))
		}
	}

	srv := server.NewServer(sessions, opts...)
	httpServer := srv.HTTPServer()

	// Set up context with signal handling for graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Printf("server listening addr=%s auth=%v", sc.Bind, sc.AuthToken != "")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	return 0
}

// runTUI opens the interactive diagram browser on a file.
func runTUI(cfg config) int {
	source, err := os.ReadFile(cfg.diagramFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if err := tui.Run(string(source)); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// dumpStructure parses a diagram file and prints its subgraph tree to stdout.
func dumpStructure(cfg config) int {
	source, err := os.ReadFile(cfg.diagramFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	model := flowchart.Parse(string(source))
	if !model.IsFlowchart {
		fmt.Fprintln(os.Stderr, "warning: no flowchart header found; treating input as plain text")
	}

	fmt.Printf("direction: %s\n", model.Direction)
	fmt.Printf("subgraphs: %d\n", len(model.Subgraphs))
	for _, sg := range model.Subgraphs {
		indent := strings.Repeat("  ", sg.Depth)
		fmt.Printf("%s- %s [%s] nodes=%d\n", indent, sg.ID, sg.Label, model.TransitiveNodeCount(sg.ID))
	}

	return 0
}
