package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vibesync/server/internal/controller"
	catalogRedis "github.com/vibesync/server/internal/repository/catalog/redis"
	"github.com/vibesync/server/internal/repository/room/inmemory"
	"github.com/vibesync/server/internal/service/catalog"
	"github.com/vibesync/server/internal/service/room"
	"github.com/vibesync/server/pkg/aescbc"
	"github.com/vibesync/server/pkg/ctxlogger"
	"github.com/vibesync/server/pkg/redisclient"
	"github.com/vibesync/server/pkg/saavn"
)

const (
	appName    = "vibesync"
	appVersion = "1.0.0"
)

type AppConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	LogLevel string `json:"log_level"`

	EncryptionKey string `json:"-"`

	SaavnAPIURL         string `json:"saavn_api_url"`
	SaavnTimeoutSeconds int    `json:"saavn_timeout_seconds"`

	QueueLimit      int `json:"queue_limit"`
	UserSongQuota   int `json:"user_song_quota"`
	MaxSongDuration int `json:"max_song_duration"`
	HistoryLimit    int `json:"history_limit"`
	RoomCodeLength  int `json:"room_code_length"`

	DefaultRoomCode     string `json:"default_room_code"`
	DefaultRoomHostId   string `json:"default_room_host_id"`
	DefaultRoomHostName string `json:"default_room_host_name"`

	// RedisHost empty disables the catalog cache entirely.
	RedisHost       string `json:"redis_host"`
	RedisPort       int    `json:"redis_port"`
	RedisPassword   string `json:"-"`
	CacheTTLSeconds int    `json:"cache_ttl_seconds"`
}

func (cfg *AppConfig) Validate() error {
	if len(cfg.EncryptionKey) != aescbc.KeySize {
		return fmt.Errorf("encryption key must be exactly %d bytes", aescbc.KeySize)
	}
	if cfg.QueueLimit < 1 {
		return fmt.Errorf("queue limit must be greater than 0")
	}
	if cfg.UserSongQuota < 1 {
		return fmt.Errorf("user song quota must be greater than 0")
	}
	if cfg.MaxSongDuration < 1 {
		return fmt.Errorf("max song duration must be greater than 0")
	}
	if cfg.HistoryLimit < 1 {
		return fmt.Errorf("history limit must be greater than 0")
	}
	if cfg.RoomCodeLength < 4 {
		return fmt.Errorf("room code length must be at least 4")
	}
	if cfg.SaavnAPIURL == "" {
		return fmt.Errorf("saavn api url is required")
	}
	if cfg.DefaultRoomCode == "" {
		return fmt.Errorf("default room code is required")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	logger := slog.New(&h)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	codec, err := aescbc.NewCodec([]byte(cfg.EncryptionKey))
	if err != nil {
		return fmt.Errorf("failed to create cipher: %w", err)
	}

	var cache catalog.Cache
	if cfg.RedisHost != "" {
		rc, err := redisclient.NewRedisClient(&redisclient.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		defer rc.Close()

		cache = catalogRedis.NewRepo(rc, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	}

	saavnClient := saavn.NewClient(cfg.SaavnAPIURL, time.Duration(cfg.SaavnTimeoutSeconds)*time.Second)
	catalogService := catalog.NewService(saavnClient, cache, logger)

	roomService := room.NewService(inmemory.NewRepo(), logger, &room.Config{
		QueueLimit:          cfg.QueueLimit,
		UserSongQuota:       cfg.UserSongQuota,
		MaxSongDuration:     cfg.MaxSongDuration,
		HistoryLimit:        cfg.HistoryLimit,
		RoomCodeLength:      cfg.RoomCodeLength,
		DefaultRoomCode:     cfg.DefaultRoomCode,
		DefaultRoomHostId:   cfg.DefaultRoomHostId,
		DefaultRoomHostName: cfg.DefaultRoomHostName,
	})

	controller := controller.NewController(roomService, catalogService, codec, logger, appName, appVersion)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
