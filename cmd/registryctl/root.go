package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/odyssey-erp/odyssey-admin/internal/platform/backend"
	"github.com/odyssey-erp/odyssey-admin/internal/registry/companies"
	"github.com/odyssey-erp/odyssey-admin/internal/registry/partners"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	backendURL string
	timeout    time.Duration
	verbose    bool
}

func (o *globalOptions) client() *backend.Client {
	return backend.NewClient(o.backendURL, o.timeout, nil)
}

func (o *globalOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "registryctl",
		Short: "Inspect and maintain the company and channel partner registries",
		Long: `registryctl talks to the registry backend API.

Available subcommands:
  companies   - List or delete companies
  partners    - List or delete channel partners
  masterdata  - Show reference lists`,
		SilenceUsage: true,
	}

	defaultURL := os.Getenv("BACKEND_URL")
	if defaultURL == "" {
		defaultURL = "http://127.0.0.1:8081"
	}
	root.PersistentFlags().StringVar(&opts.backendURL, "backend-url", defaultURL, "Registry API base URL (or set BACKEND_URL env)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(newEntityCmd(opts, companies.Definition(), "Manage companies"))
	root.AddCommand(newEntityCmd(opts, partners.Definition(), "Manage channel partners"))
	root.AddCommand(newMasterDataCmd(opts))
	return root
}
