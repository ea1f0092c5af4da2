package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vibesync/server/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 8000,
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	encryptionKey = configVar[string]{
		envKey:       "SERVER_ENCRYPTION_KEY",
		flagKey:      "encryption-key",
		defaultValue: "",
	}
	saavnAPIURL = configVar[string]{
		envKey:       "SAAVN_API_URL",
		flagKey:      "saavn-api-url",
		defaultValue: "https://saavn.dev/api",
	}
	saavnTimeout = configVar[int]{
		envKey:       "SAAVN_TIMEOUT_SECONDS",
		flagKey:      "saavn-timeout",
		defaultValue: 10,
	}
	queueLimit = configVar[int]{
		envKey:       "SERVER_QUEUE_LIMIT",
		flagKey:      "queue-limit",
		defaultValue: 100,
	}
	userSongQuota = configVar[int]{
		envKey:       "SERVER_USER_SONG_QUOTA",
		flagKey:      "user-song-quota",
		defaultValue: 3,
	}
	maxSongDuration = configVar[int]{
		envKey:       "SERVER_MAX_SONG_DURATION",
		flagKey:      "max-song-duration",
		defaultValue: 480,
	}
	historyLimit = configVar[int]{
		envKey:       "SERVER_HISTORY_LIMIT",
		flagKey:      "history-limit",
		defaultValue: 10,
	}
	roomCodeLength = configVar[int]{
		envKey:       "SERVER_ROOM_CODE_LENGTH",
		flagKey:      "room-code-length",
		defaultValue: 6,
	}
	defaultRoomCode = configVar[string]{
		envKey:       "SERVER_DEFAULT_ROOM_CODE",
		flagKey:      "default-room-code",
		defaultValue: "DEFAULT",
	}
	defaultRoomHostId = configVar[string]{
		envKey:       "SERVER_DEFAULT_ROOM_HOST_ID",
		flagKey:      "default-room-host-id",
		defaultValue: "system",
	}
	defaultRoomHostName = configVar[string]{
		envKey:       "SERVER_DEFAULT_ROOM_HOST_NAME",
		flagKey:      "default-room-host-name",
		defaultValue: "VibeSync Radio",
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
	cacheTTL = configVar[int]{
		envKey:       "SERVER_CACHE_TTL_SECONDS",
		flagKey:      "cache-ttl",
		defaultValue: 3600,
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.String(encryptionKey.flagKey, encryptionKey.defaultValue, "32-byte AES response encryption key")
	pflag.String(saavnAPIURL.flagKey, saavnAPIURL.defaultValue, "Song catalog API base URL")
	pflag.Int(saavnTimeout.flagKey, saavnTimeout.defaultValue, "Song catalog API timeout in seconds")
	pflag.Int(queueLimit.flagKey, queueLimit.defaultValue, "Maximum number of songs in a room queue")
	pflag.Int(userSongQuota.flagKey, userSongQuota.defaultValue, "Maximum pending songs per user per room")
	pflag.Int(maxSongDuration.flagKey, maxSongDuration.defaultValue, "Maximum song duration in seconds")
	pflag.Int(historyLimit.flagKey, historyLimit.defaultValue, "Number of recently played songs to keep")
	pflag.Int(roomCodeLength.flagKey, roomCodeLength.defaultValue, "Length of generated room codes")
	pflag.String(defaultRoomCode.flagKey, defaultRoomCode.defaultValue, "Code of the always-on default room")
	pflag.String(defaultRoomHostId.flagKey, defaultRoomHostId.defaultValue, "Host user id of the default room")
	pflag.String(defaultRoomHostName.flagKey, defaultRoomHostName.defaultValue, "Host username of the default room")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host, empty disables the catalog cache")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.Int(cacheTTL.flagKey, cacheTTL.defaultValue, "Catalog cache TTL in seconds")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(encryptionKey.flagKey, encryptionKey.envKey)
	viper.BindEnv(saavnAPIURL.flagKey, saavnAPIURL.envKey)
	viper.BindEnv(saavnTimeout.flagKey, saavnTimeout.envKey)
	viper.BindEnv(queueLimit.flagKey, queueLimit.envKey)
	viper.BindEnv(userSongQuota.flagKey, userSongQuota.envKey)
	viper.BindEnv(maxSongDuration.flagKey, maxSongDuration.envKey)
	viper.BindEnv(historyLimit.flagKey, historyLimit.envKey)
	viper.BindEnv(roomCodeLength.flagKey, roomCodeLength.envKey)
	viper.BindEnv(defaultRoomCode.flagKey, defaultRoomCode.envKey)
	viper.BindEnv(defaultRoomHostId.flagKey, defaultRoomHostId.envKey)
	viper.BindEnv(defaultRoomHostName.flagKey, defaultRoomHostName.envKey)
	viper.BindEnv(redisHost.flagKey, redisHost.envKey)
	viper.BindEnv(redisPort.flagKey, redisPort.envKey)
	viper.BindEnv(redisPassword.flagKey, redisPassword.envKey)
	viper.BindEnv(cacheTTL.flagKey, cacheTTL.envKey)

	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(encryptionKey.flagKey, encryptionKey.defaultValue)
	viper.SetDefault(saavnAPIURL.flagKey, saavnAPIURL.defaultValue)
	viper.SetDefault(saavnTimeout.flagKey, saavnTimeout.defaultValue)
	viper.SetDefault(queueLimit.flagKey, queueLimit.defaultValue)
	viper.SetDefault(userSongQuota.flagKey, userSongQuota.defaultValue)
	viper.SetDefault(maxSongDuration.flagKey, maxSongDuration.defaultValue)
	viper.SetDefault(historyLimit.flagKey, historyLimit.defaultValue)
	viper.SetDefault(roomCodeLength.flagKey, roomCodeLength.defaultValue)
	viper.SetDefault(defaultRoomCode.flagKey, defaultRoomCode.defaultValue)
	viper.SetDefault(defaultRoomHostId.flagKey, defaultRoomHostId.defaultValue)
	viper.SetDefault(defaultRoomHostName.flagKey, defaultRoomHostName.defaultValue)
	viper.SetDefault(redisHost.flagKey, redisHost.defaultValue)
	viper.SetDefault(redisPort.flagKey, redisPort.defaultValue)
	viper.SetDefault(redisPassword.flagKey, redisPassword.defaultValue)
	viper.SetDefault(cacheTTL.flagKey, cacheTTL.defaultValue)

	return &app.AppConfig{
		Host:                viper.GetString(host.flagKey),
		Port:                viper.GetInt(port.flagKey),
		LogLevel:            viper.GetString(logLevel.flagKey),
		EncryptionKey:       viper.GetString(encryptionKey.flagKey),
		SaavnAPIURL:         viper.GetString(saavnAPIURL.flagKey),
		SaavnTimeoutSeconds: viper.GetInt(saavnTimeout.flagKey),
		QueueLimit:          viper.GetInt(queueLimit.flagKey),
		UserSongQuota:       viper.GetInt(userSongQuota.flagKey),
		MaxSongDuration:     viper.GetInt(maxSongDuration.flagKey),
		HistoryLimit:        viper.GetInt(historyLimit.flagKey),
		RoomCodeLength:      viper.GetInt(roomCodeLength.flagKey),
		DefaultRoomCode:     viper.GetString(defaultRoomCode.flagKey),
		DefaultRoomHostId:   viper.GetString(defaultRoomHostId.flagKey),
		DefaultRoomHostName: viper.GetString(defaultRoomHostName.flagKey),
		RedisHost:           viper.GetString(redisHost.flagKey),
		RedisPort:           viper.GetInt(redisPort.flagKey),
		RedisPassword:       viper.GetString(redisPassword.flagKey),
		CacheTTLSeconds:     viper.GetInt(cacheTTL.flagKey),
	}
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
