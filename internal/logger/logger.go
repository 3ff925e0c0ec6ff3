package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelSuccess
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelSuccess:
		return "SUCCESS"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) prefix() string {
	switch l {
	case LevelDebug:
		return "🔍 DEBUG"
	case LevelInfo:
		return "ℹ️ INFO"
	case LevelSuccess:
		return "✅ SUCCESS"
	case LevelWarn:
		return "⚠️ WARN"
	case LevelError:
		return "❌ ERROR"
	default:
		return l.String()
	}
}

// ParseLevel maps a level name from configuration, defaulting to info.
func ParseLevel(name string) Level {
	switch name {
	case "debug", "DEBUG":
		return LevelDebug
	case "warn", "WARN":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// BotClient delivers log lines to a chat, e.g. a Telegram channel.
type BotClient interface {
	SendMessage(chatID int64, text string) error
}

var (
	mu           sync.Mutex
	output       io.Writer = os.Stdout
	level                  = LevelInfo
	botClient    BotClient
	channelID    int64
	channelLevel = LevelSuccess
	pending      sync.WaitGroup
)

// Init forwards log lines at or above LevelSuccess to the given channel.
func Init(client BotClient, chatID int64) {
	mu.Lock()
	defer mu.Unlock()
	botClient = client
	channelID = chatID
}

func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

func SetChannelLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	channelLevel = l
}

func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func Debug(message string) {
	sendLog(LevelDebug, message)
}

func Info(message string) {
	sendLog(LevelInfo, message)
}

func Success(message string) {
	sendLog(LevelSuccess, message)
}

func Warn(message string) {
	sendLog(LevelWarn, message)
}

func Error(message string) {
	sendLog(LevelError, message)
}

// Flush waits for channel deliveries still in flight.
func Flush() {
	pending.Wait()
}

func sendLog(l Level, message string) {
	mu.Lock()
	defer mu.Unlock()

	if l < level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	logMessage := fmt.Sprintf("[%s] %s\n%s", timestamp, l.prefix(), message)
	fmt.Fprintln(output, logMessage)

	if botClient == nil || l < channelLevel {
		return
	}

	client, chatID, w := botClient, channelID, output
	pending.Add(1)
	go func() {
		defer pending.Done()
		if err := client.SendMessage(chatID, logMessage); err != nil {
			fmt.Fprintf(w, "Failed to send log to channel: %v\n", err)
		}
	}()
}

// LogWithErr logs message as info when err is nil, as an error otherwise,
// and returns err wrapped with message.
func LogWithErr(message string, err error) error {
	if err == nil {
		Info(message)
		return nil
	}

	Error(fmt.Sprintf("%s\nError: %v", message, err))
	return fmt.Errorf("%s: %w", message, err)
}
