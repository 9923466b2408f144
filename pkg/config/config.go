package config

import (
	"time"

	"alias/internal/repository"
	"alias/pkg/logger"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Repo   repository.Config `envPrefix:"REPO_"`
	Logger logger.Config     `envPrefix:"LOGGER_"`

	TelegramToken string `env:"TELEGRAM_TOKEN" envDefault:""`
	DiscordToken  string `env:"DISCORD_TOKEN" envDefault:""`
	DiscordPrefix string `env:"DISCORD_PREFIX" envDefault:"!"`
	// Empty registers slash commands globally.
	DiscordGuildID string `env:"DISCORD_GUILD_ID" envDefault:""`

	Game Game

	GoogleCredentials string `env:"GOOGLE_CREDENTIALS" envDefault:""`
	GoogleOwnerEmail  string `env:"GOOGLE_OWNER_EMAIL" envDefault:""`
}

type Game struct {
	WordsDir     string        `env:"WORDS_DIR" envDefault:"data/words"`
	RoundSeconds int           `env:"ROUND_SECONDS" envDefault:"60"`
	WinTarget    int           `env:"WIN_TARGET" envDefault:"15"`
	TickInterval time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`
	SampleSize   int           `env:"SAMPLE_SIZE" envDefault:"50"`
}

func ReadEnvConfig(cfg *Config) error {
	return env.Parse(cfg)
}

func (g Game) RoundDuration() time.Duration {
	return time.Duration(g.RoundSeconds) * time.Second
}
