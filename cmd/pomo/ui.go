package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/pomo/internal/app"
	"github.com/sandeepkv93/pomo/internal/chat"
	"github.com/sandeepkv93/pomo/internal/freewrite"
	"github.com/sandeepkv93/pomo/internal/jsonlog"
	"github.com/sandeepkv93/pomo/internal/session"
	"github.com/sandeepkv93/pomo/internal/storage"
	"github.com/sandeepkv93/pomo/internal/tasks"
	"github.com/sandeepkv93/pomo/internal/update"
)

func uiCmd(configDir *string) *cobra.Command {
	var focus string
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd.Context(), *configDir, focus)
		},
	}
	cmd.Flags().StringVar(&focus, "focus", "", "task number or id to prioritize on start")
	return cmd
}

func runUI(ctx context.Context, configDir, focus string) error {
	cfg, store, err := openStore(configDir)
	if err != nil {
		return err
	}
	defer storage.Close(store)

	logOut := io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := jsonlog.New(logOut)

	registry := tasks.NewRegistry(ctx, store)
	if focus != "" {
		task, ok := registry.Resolve(focus)
		if !ok {
			return fmt.Errorf("no task matches %q", focus)
		}
		if err := registry.SetActive(task.ID); err != nil {
			return err
		}
	}

	timer := session.NewTimer(ctx,
		session.WithDurations(cfg.Durations),
		session.WithStore(store),
		session.WithActiveTask(registry),
		session.WithTicks(0, session.SchedulerTicks(cfg.SchedulerBuffer)),
	)
	defer timer.Close()

	var notifier app.DesktopNotifier = app.NoopDesktopNotifier{}
	if cfg.DesktopNotifications {
		notifier = app.ExecDesktopNotifier{}
	}
	coordinator := app.NewCoordinator(ctx, timer, registry,
		app.WithNotifier(notifier),
		app.WithLogger(logger),
	)

	facade := chat.NewFacade(chat.NewProxyClient(cfg.ChatProxyURL, cfg.ChatHTTPTimeout), logger)

	model := update.NewModel(ctx, update.Deps{
		Timer:       timer,
		Tasks:       registry,
		Coordinator: coordinator,
		Chat:        chat.NewConversation(ctx, store),
		Facade:      facade,
		Pad:         freewrite.Load(ctx, store),
		Log:         logger,
		Bell:        true,
	})
	logger.Info("ui_started", map[string]any{"backend": string(cfg.StoreBackend), "tasks": registry.Len()})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}
