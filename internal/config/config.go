package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/sandeepkv93/pomo/internal/model"
	"github.com/sandeepkv93/pomo/internal/storage"
)

const (
	EnvPrefix      = "POMO"
	ConfigName     = ".pomo"
	ConfigPathEnv  = "POMO_CONFIG_PATH"
	GeminiKeyEnv   = "GEMINI_API_KEY"
	DefaultAddr    = "127.0.0.1:8787"
	DefaultStore   = "~/.pomo"
	DefaultTimeout = 20 * time.Second
)

type RuntimeConfig struct {
	Durations            model.Durations
	StoreBackend         storage.Backend
	StorePath            string
	ChatProxyURL         string
	ChatHTTPTimeout      time.Duration
	ServerAddr           string
	GeminiAPIKey         string
	GeminiModel          string
	GeminiBaseURL        string
	DesktopNotifications bool
	SchedulerBuffer      int
	LogFile              string
	ConfigFile           string
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Durations:       model.DefaultDurations(),
		StoreBackend:    storage.BackendDisk,
		StorePath:       DefaultStore,
		ChatProxyURL:    "http://" + DefaultAddr + "/api/safeplace",
		ChatHTTPTimeout: DefaultTimeout,
		ServerAddr:      DefaultAddr,
		SchedulerBuffer: 1,
	}
}

// Load reads .pomo.yaml from dir, $POMO_CONFIG_PATH, $HOME or the working
// directory, in that order, then applies POMO_* environment overrides. A
// missing file is not an error.
func Load(dir string) (RuntimeConfig, error) {
	def := DefaultRuntimeConfig()
	v := viper.New()
	v.SetDefault("timer.focus_seconds", def.Durations.Focus)
	v.SetDefault("timer.break_seconds", def.Durations.Break)
	v.SetDefault("timer.freewrite_seconds", def.Durations.FreeWrite)
	v.SetDefault("store.backend", string(def.StoreBackend))
	v.SetDefault("store.path", def.StorePath)
	v.SetDefault("chat.proxy_url", def.ChatProxyURL)
	v.SetDefault("chat.http_timeout", def.ChatHTTPTimeout)
	v.SetDefault("server.addr", def.ServerAddr)
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "")
	v.SetDefault("gemini.base_url", "")
	v.SetDefault("notify.desktop", def.DesktopNotifications)
	v.SetDefault("scheduler.buffer", def.SchedulerBuffer)
	v.SetDefault("log.file", "")

	v.SetConfigName(ConfigName)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if dir = strings.TrimSpace(dir); dir != "" {
		v.AddConfigPath(dir)
	}
	if override := os.Getenv(ConfigPathEnv); override != "" {
		v.AddConfigPath(override)
	}
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return def, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	cfg := RuntimeConfig{
		Durations: model.Durations{
			Focus:     v.GetInt("timer.focus_seconds"),
			Break:     v.GetInt("timer.break_seconds"),
			FreeWrite: v.GetInt("timer.freewrite_seconds"),
		},
		StoreBackend:         storage.Backend(strings.ToLower(strings.TrimSpace(v.GetString("store.backend")))),
		StorePath:            strings.TrimSpace(v.GetString("store.path")),
		ChatProxyURL:         strings.TrimSpace(v.GetString("chat.proxy_url")),
		ChatHTTPTimeout:      v.GetDuration("chat.http_timeout"),
		ServerAddr:           strings.TrimSpace(v.GetString("server.addr")),
		GeminiAPIKey:         strings.TrimSpace(v.GetString("gemini.api_key")),
		GeminiModel:          strings.TrimSpace(v.GetString("gemini.model")),
		GeminiBaseURL:        strings.TrimSpace(v.GetString("gemini.base_url")),
		DesktopNotifications: v.GetBool("notify.desktop"),
		SchedulerBuffer:      v.GetInt("scheduler.buffer"),
		LogFile:              strings.TrimSpace(v.GetString("log.file")),
		ConfigFile:           v.ConfigFileUsed(),
	}
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv(GeminiKeyEnv))
	}
	return cfg.sanitize(def), nil
}

func (c RuntimeConfig) sanitize(def RuntimeConfig) RuntimeConfig {
	if c.Durations.Validate() != nil {
		c.Durations = def.Durations
	}
	if c.StorePath == "" {
		c.StorePath = def.StorePath
	}
	if c.StoreBackend == "" {
		c.StoreBackend = def.StoreBackend
	}
	if c.ChatHTTPTimeout <= 0 {
		c.ChatHTTPTimeout = def.ChatHTTPTimeout
	}
	if c.ServerAddr == "" {
		c.ServerAddr = def.ServerAddr
	}
	if c.SchedulerBuffer <= 0 {
		c.SchedulerBuffer = def.SchedulerBuffer
	}
	return c
}
