package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tahmarrrr23/tappval/internal/analyze"
	"github.com/tahmarrrr23/tappval/internal/model"
	"github.com/tahmarrrr23/tappval/internal/server"
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Run the HTTP viewer API",
	Long: `Serve the viewer over HTTP: trigger analyses, send pointer, scroll and
resize events, and fetch the display list, summary or rendered overlay.

Routes:
  GET    /health
  GET    /api/analyze?url=URL
  GET    /api/status
  DELETE /api/alert
  DELETE /api/cache[?url=URL]
  PUT    /api/result
  GET    /api/summary
  GET    /api/view
  GET    /api/view/state
  POST   /api/view/events
  GET    /api/view/image.png

Examples:
  tappval web
  tappval web --listen :9090 --result result.json`,
	RunE: runWeb,
}

func init() {
	rootCmd.AddCommand(webCmd)
	webCmd.Flags().String("listen", "", "Listen address (default from config)")
	webCmd.Flags().String("result", "", "Result file to show on startup")
	webCmd.Flags().Duration("cache-ttl", 0, "Result cache TTL, 0 to disable (default from config)")
}

func runWeb(cmd *cobra.Command, args []string) error {
	host, err := newHost(cmd)
	if err != nil {
		return err
	}

	listen, _ := cmd.Flags().GetString("listen")
	if listen == "" {
		listen = cfg.Listen
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return server.ListenAndServe(ctx, listen, host)
}

// newHost builds a server host from the config and the --cache-ttl and
// --result flags.
func newHost(cmd *cobra.Command) (*server.Host, error) {
	ttl := cfg.CacheTTL
	if cmd.Flags().Changed("cache-ttl") {
		ttl, _ = cmd.Flags().GetDuration("cache-ttl")
	}
	host := server.NewHost(analyze.NewClient(cfg.Endpoint, cfg.Timeout), ttl, logger)
	host.SetDefaultDevice(cfg.Device)

	if path, _ := cmd.Flags().GetString("result"); path != "" {
		result, err := model.Load(path)
		if err != nil {
			return nil, err
		}
		if err := model.Validate(result); err != nil {
			logger.Warn("result has invalid fields", "path", path, "error", err)
		}
		host.Load(result)
	}
	return host, nil
}
