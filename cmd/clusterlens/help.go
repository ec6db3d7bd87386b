// ABOUTME: Help display for the clusterlens CLI with grouped flags, examples, and environment status.
// ABOUTME: Provides printHelp for usage output and envStatus for configuration detection.
package main

import (
	"fmt"
	"io"
	"os"
)

// printHelp writes a formatted help message to w, including usage patterns,
// grouped flags, examples, and environment status.
func printHelp(w io.Writer, ver string) {
	fmt.Fprintf(w, "clusterlens %s — Kubernetes diagram dashboard\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  clusterlens <diagram.mmd>        Print the structure of a diagram file")
	fmt.Fprintln(w, "  clusterlens -tui <diagram.mmd>   Browse a diagram interactively")
	fmt.Fprintln(w, "  clusterlens -server              Start the dashboard HTTP server")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Server Flags:")
	fmt.Fprintln(w, "  -server               Start HTTP server mode")
	fmt.Fprintln(w, "  -bind <addr>          Listen address (default: CLUSTERLENS_BIND or 127.0.0.1:7790)")
	fmt.Fprintln(w, "  -kubeconfig <path>    Kubeconfig for cluster topology (default: autodetect)")
	fmt.Fprintln(w, "  -no-kube              Skip cluster connection even if a kubeconfig exists")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Other:")
	fmt.Fprintln(w, "  -tui                  Browse a diagram file in the terminal")
	fmt.Fprintln(w, "  -version              Print version and exit")
	fmt.Fprintln(w, "  -help                 Show this help")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  clusterlens cluster.mmd")
	fmt.Fprintln(w, "  clusterlens -tui cluster.mmd")
	fmt.Fprintln(w, "  clusterlens -server -bind 127.0.0.1:8080")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  CLUSTERLENS_AUTH_TOKEN   %s\n", envStatus("CLUSTERLENS_AUTH_TOKEN"))
	fmt.Fprintf(w, "  OPENAI_API_KEY           %s\n", envStatus("OPENAI_API_KEY"))
	fmt.Fprintf(w, "  KUBECONFIG               %s\n", envStatus("KUBECONFIG"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  An OpenAI key enables the /api/generate and /api/explain endpoints.")
}

// envStatus returns "[set]" if the named environment variable is non-empty,
// or "[not set]" otherwise.
func envStatus(key string) string {
	if os.Getenv(key) != "" {
		return "[set]"
	}
	return "[not set]"
}
