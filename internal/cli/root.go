// Package cli provides the command-line interface for hfetch.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	hfetcherrors "github.com/princespaghetti/hfetch/internal/errors"
	"github.com/princespaghetti/hfetch/internal/fetcher"
	"github.com/princespaghetti/hfetch/internal/logging"
)

// Version information (will be set by build flags in production).
var (
	Version   = "dev"
	GitCommit = "none"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "hfetch [URL]",
	Short: "Fetch a URL and print the response body",
	Long: `hfetch sends a single GET request and prints the response.

The status line and response headers are written to stderr, in the order
the server sent them. The body is written to stdout, so it can be piped or
redirected on its own. Without a URL, ` + fetcher.DefaultURL + ` is fetched.

The client speaks HTTP/1.1 only, over a fresh connection for every request
(redirects included). That is what lets the header dump keep the server's
order, so servers that would otherwise negotiate HTTP/2 report HTTP/1.1.

There are no flags. The first argument is used as the URL exactly as given;
only a lone -h or --help prints this text.

Examples:
  hfetch
  hfetch https://example.com/
  hfetch http://localhost:8080/health > health.json`,
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if isHelpRequest(args) {
			return cmd.Help()
		}
		return Run(cmd.Context(), args, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// isHelpRequest reports whether the only argument asks for help. Flag parsing
// is off so every other argument reaches Run untouched.
func isHelpRequest(args []string) bool {
	return len(args) == 1 && (args[0] == "-h" || args[0] == "--help")
}

// ResolveTarget returns the address to fetch: the first argument verbatim,
// or DefaultURL when there are none.
func ResolveTarget(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return fetcher.DefaultURL
}

// Run performs one fetch. Diagnostics go to stderr, and the body followed by
// a newline goes to stdout once it has been read in full. Fetch failures are
// returned as *errors.TransportError with nothing written to stdout.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	log := logr.FromContextOrDiscard(ctx)
	out := newPrinter(stderr)

	url := ResolveTarget(args)
	if len(args) == 0 {
		out.Notice("No URL provided, using default.")
	}
	log.V(1).Info("Resolved target", "url", url, "args", len(args))

	out.Fetching(url)

	f := fetcher.NewFetcher(nil)
	f.UserAgent = userAgent()

	resp, err := f.Fetch(ctx, url)
	if err != nil {
		return err
	}

	out.Status(resp)
	out.Headers(resp.Header)

	if _, err := fmt.Fprintln(stdout, string(resp.Body)); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return nil
}

func userAgent() string {
	return fmt.Sprintf("hfetch/%s (commit %s)", Version, GitCommit)
}

// report logs a failed run through the context logger and returns the exit
// code for it.
func report(ctx context.Context, err error) int {
	code := hfetcherrors.ExitCode(err)
	log := logr.FromContextOrDiscard(ctx)

	var transportErr *hfetcherrors.TransportError
	if errors.As(err, &transportErr) {
		log.Error(transportErr.Err, "Fetch failed", "op", transportErr.Op, "url", transportErr.URL, "exit", code)
		return code
	}
	log.Error(err, "Command failed", "exit", code)
	return code
}

// Execute runs the root command and handles errors.
func Execute() {
	ctx := logging.WithLogger(context.Background(), logging.New(os.Stderr, logging.DefaultLevel))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(report(ctx, err))
	}
}
