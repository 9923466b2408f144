package game

import (
	"context"
	"time"

	"alias/internal/models"
)

type Logger interface {
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// WordSource returns the full word→translation catalog. An unknown or broken
// catalog yields an empty map.
type WordSource interface {
	Load(lang models.Language, difficulty models.Difficulty) map[string]string
}

// Notifier is implemented by the delivery layer. RoundTick errors mean the
// countdown can no longer be rendered and the round is ended.
type Notifier interface {
	RoundTick(chatID int64, remaining time.Duration) error
	RoundOver(chatID int64, reply Reply)
}

type Recorder interface {
	SaveGame(ctx context.Context, record models.GameRecord) error
}

type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}
