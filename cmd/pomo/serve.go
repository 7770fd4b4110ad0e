package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/pomo/internal/chat"
	"github.com/sandeepkv93/pomo/internal/config"
	"github.com/sandeepkv93/pomo/internal/httpapi"
	"github.com/sandeepkv93/pomo/internal/jsonlog"
)

func serveCmd(configDir *string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat proxy in front of the Gemini API",
		Long: `Run the chat proxy. The TUI posts chat messages to it and it relays
them to the generative-language API with the configured key.

Examples:
  pomo serve
  GEMINI_API_KEY=... pomo serve --addr :8787`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configDir)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.ServerAddr
			}
			logger := jsonlog.New(os.Stderr)
			if cfg.GeminiAPIKey == "" {
				logger.Warn("gemini_key_missing", map[string]any{"hint": "set GEMINI_API_KEY"})
			}
			gemini := chat.NewGeminiClient(cfg.GeminiAPIKey,
				chat.WithGeminiModel(cfg.GeminiModel),
				chat.WithGeminiBaseURL(cfg.GeminiBaseURL),
			)

			gin.SetMode(gin.ReleaseMode)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := httpapi.NewServer(gemini, logger).Run(ctx, addr); err != nil {
				logger.Error("server_failed", map[string]any{"err": err})
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.addr)")
	return cmd
}
