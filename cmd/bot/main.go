package main

import (
	"os"

	"gatekeeper-bot/internal/bot"
	"gatekeeper-bot/internal/config"
	"gatekeeper-bot/internal/database"
	"gatekeeper-bot/internal/handlers"
	"gatekeeper-bot/internal/registration"
	"gatekeeper-bot/internal/subscription"
	"gatekeeper-bot/internal/texts"
	"gatekeeper-bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	envFile := getEnv("ENV_FILE", ".env")
	_ = godotenv.Load(envFile)

	// Logger config from env (LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT)
	loggerConfig := logger.Config{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", "json"),
		Output: getEnv("LOG_OUTPUT", "stdout"),
	}
	zapLogger, err := logger.New(loggerConfig, logger.DefaultServiceName)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to init logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = zapLogger.Sync() }()
	zap.ReplaceGlobals(zapLogger)

	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" {
		zap.L().Fatal("BOT_TOKEN is required")
	}

	// The ADMINS line of the env file doubles as the durable admin list;
	// mutations rewrite it in place.
	adminList := config.LoadAdminList(envFile, os.Getenv("ADMINS"))
	if _, err := adminList.Main(); err != nil {
		zap.L().Fatal("ADMINS must contain at least the main admin id")
	}

	dbConfig := database.Config{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}

	db, err := database.New(dbConfig)
	if err != nil {
		zap.L().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		zap.L().Fatal("Failed to run migrations", zap.Error(err))
	}

	b, err := bot.New(botToken)
	if err != nil {
		zap.L().Fatal("Failed to create bot", zap.Error(err))
	}

	checker := subscription.NewChecker(b, db)
	watcher := subscription.NewWatcher(checker, b, db, subscription.DefaultPollInterval)
	reg := registration.NewService(db, b, b, adminList)
	h := handlers.New(b, db, adminList, checker, watcher, reg)

	zap.L().Info("Bot started successfully")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.API.GetUpdatesChan(u)

	for update := range updates {
		if update.Message != nil {
			message := update.Message
			if !message.Chat.IsPrivate() {
				if message.IsCommand() {
					_ = b.SendMessage(message.Chat.ID, texts.PrivateChatOnly, nil)
				}
				continue
			}
			if message.IsCommand() {
				switch message.Command() {
				case "start":
					go h.HandleStart(message)
				case "lang":
					go h.HandleLang(message)
				case "admin":
					go h.HandleAdminPanel(message)
				case "cancel":
					go h.HandleCancel(message)
				default:
					_ = b.SendMessage(message.Chat.ID, texts.InvalidCommand, nil)
				}
			} else {
				go h.HandleMessage(message)
			}
		} else if update.CallbackQuery != nil {
			go h.HandleCallbackQuery(update.CallbackQuery)
		}
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
