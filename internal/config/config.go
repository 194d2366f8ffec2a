package config

import (
	"io"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultLogLevel は通常実行時に診断ログを抑制するためのレベルです。
const DefaultLogLevel = "warn"

// Config は環境変数から読み込むアプリケーション設定です。
// 対象URLや出力形式は設定対象外です。
type Config struct {
	LogLevel string `envconfig:"COVID_STATS_LOG_LEVEL" default:"warn"`
}

// Load は .env (存在すれば) と環境変数から設定を読み込みます。
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Level は設定されたログレベルを返します。解釈できない値は DefaultLogLevel として扱います。
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		level, _ = zerolog.ParseLevel(DefaultLogLevel)
	}
	return level
}

// SetupLogging はグローバルロガーを out 向けのコンソール出力に設定します。
func SetupLogging(cfg Config, out io.Writer) {
	zerolog.SetGlobalLevel(cfg.Level())
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out})
}
