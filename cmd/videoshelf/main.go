// Command videoshelf serves or builds a videos page from a content directory.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eringen/videoshelf"
	"github.com/eringen/videoshelf/enrich"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// Global flags
	configPath string
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "videoshelf",
	Short: "videoshelf - a videos page built from markdown",
	Long: `videoshelf renders a "Videos" page from markdown files with YAML
frontmatter. Every document with type: video becomes a feature block.

Serve it with Echo, or build it to static files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = videoshelf.NewLogger(verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the videos page over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := videoshelf.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("watch") {
			cfg.Watch, _ = cmd.Flags().GetBool("watch")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := []videoshelf.Option{videoshelf.WithLogger(logger)}
		if e := newEnricher(ctx, cfg); e != nil {
			opts = append(opts, videoshelf.WithEnricher(e))
		}
		app := videoshelf.New(cfg, opts...)
		defer app.Close()
		return app.Start(ctx)
	},
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the site to static files",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := videoshelf.LoadConfig(configPath)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")
		ctx := cmd.Context()
		report, err := videoshelf.Build(ctx, cfg, out, logger, newEnricher(ctx, cfg))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Built %d videos into %s (%d files)\n",
			report.Videos, report.OutDir, len(report.Files))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the videoshelf version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "videoshelf %s\n", version)
	},
}

// newEnricher returns nil when no API key is configured or the client
// cannot be created; enrichment is optional.
func newEnricher(ctx context.Context, cfg videoshelf.SiteConfig) videoshelf.Enricher {
	if cfg.YouTubeAPIKey == "" {
		return nil
	}
	y, err := enrich.NewYouTube(ctx, cfg.YouTubeAPIKey, logger)
	if err != nil {
		logger.Warn("youtube enrichment disabled", zap.Error(err))
		return nil
	}
	return y
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $VIDEOSHELF_CONFIG or videoshelf.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
	serveCmd.Flags().Bool("watch", false, "Resync when content files change")
	buildCmd.Flags().StringP("out", "o", "", "Output directory (default: output_dir from config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
