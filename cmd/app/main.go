package main

import (
	"context"
	"database/sql"
	"embed"
	"os"

	"alias/internal/application"
	"alias/internal/delivery/discord"
	"alias/internal/delivery/telegram"
	"alias/internal/game"
	"alias/internal/repository"
	"alias/pkg/config"
	"alias/pkg/logger"
	service "alias/pkg/services"
	"alias/pkg/sheets"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

func main() {
	_ = godotenv.Load()

	cfg := config.Config{}
	if err := config.ReadEnvConfig(&cfg); err != nil {
		panic(err)
	}

	log := logger.NewLogger(&cfg.Logger)

	var db *sql.DB
	if cfg.Repo.Enabled() {
		var err error
		db, err = repository.NewPostgresDB(&cfg.Repo)
		if err != nil {
			log.Error("failed to init db: %s", err.Error())
			return
		}
		defer db.Close()

		log.Info("Running migrations...")
		if err := repository.RunMigrations(db, migrationFS, "migrations"); err != nil {
			log.Error("failed to run migrations: %s", err.Error())
			return
		}
		log.Info("Migrations applied successfully")
	} else {
		log.Warn("REPO_DB_HOST is not set, game history is kept in memory")
	}

	repos := repository.NewRepository(db, os.DirFS(cfg.Game.WordsDir), log)
	if len(repos.Available()) == 0 {
		log.Warn("no word lists found in %s", cfg.Game.WordsDir)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sheetsService application.SheetsService
	if cfg.GoogleCredentials != "" {
		client, err := sheets.NewGoogleSheetsClient(ctx, cfg.GoogleCredentials)
		if err != nil {
			log.Error("failed to init google sheets: %s", err.Error())
			return
		}
		sheetsService = application.NewSheetsServiceImpl(client, cfg.GoogleOwnerEmail)
	}

	services := application.NewService(repos, sheetsService, log)

	manager := service.NewManager(log)

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, newEngine(cfg.Game, repos, services, log), services.ReportService, repos, log.With("bot", "telegram"))
		if err != nil {
			log.Error("failed to init telegram bot: %s", err.Error())
			return
		}
		manager.AddService(bot)
	}

	if cfg.DiscordToken != "" {
		bot, err := discord.NewBot(discord.Config{
			Token:   cfg.DiscordToken,
			Prefix:  cfg.DiscordPrefix,
			GuildID: cfg.DiscordGuildID,
		}, newEngine(cfg.Game, repos, services, log), services.ReportService, repos, log.With("bot", "discord"))
		if err != nil {
			log.Error("failed to init discord bot: %s", err.Error())
			return
		}
		manager.AddService(bot)
	}

	if err := manager.Run(ctx); err != nil {
		log.Error("%s", err.Error())
		return
	}
	log.Info("Bots Stopped")
}

// newEngine builds an independent game engine, so chat IDs of different
// messengers never share a session.
func newEngine(cfg config.Game, repos *repository.Repository, services *application.Service, log *logger.Logger) *game.Engine {
	clock := game.NewRealClock()
	return game.NewEngine(
		game.NewRegistry(game.Settings{
			RoundDuration: cfg.RoundDuration(),
			WinTarget:     cfg.WinTarget,
		}),
		repos,
		game.NewSampler(cfg.SampleSize),
		game.NewRoundTimer(clock, cfg.TickInterval),
		clock,
		services.ReportService,
		log,
	)
}
