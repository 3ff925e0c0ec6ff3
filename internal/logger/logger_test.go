package logger

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

type fakeBot struct {
	mu   sync.Mutex
	sent []string
	chat int64
}

func (f *fakeBot) SendMessage(chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chat = chatID
	f.sent = append(f.sent, text)
	return nil
}

func reset(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelInfo)
	SetChannelLevel(LevelSuccess)
	Init(nil, 0)
	t.Cleanup(func() {
		Flush()
		Init(nil, 0)
	})
	return &buf
}

func TestLevelFiltering(t *testing.T) {
	buf := reset(t)

	Debug("hidden")
	Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "ℹ️ INFO\nshown") {
		t.Errorf("info line missing: %q", out)
	}
}

func TestChannelForwarding(t *testing.T) {
	reset(t)
	bot := &fakeBot{}
	Init(bot, 42)

	Info("local only")
	Error("boom")
	Success("done")
	Flush()

	bot.mu.Lock()
	defer bot.mu.Unlock()
	if len(bot.sent) != 2 {
		t.Fatalf("forwarded %d messages, want 2: %q", len(bot.sent), bot.sent)
	}
	if bot.chat != 42 {
		t.Errorf("chat id = %d; want 42", bot.chat)
	}
	for _, msg := range bot.sent {
		if strings.Contains(msg, "local only") {
			t.Errorf("info line forwarded: %q", msg)
		}
	}
}

func TestLogWithErr(t *testing.T) {
	buf := reset(t)

	if err := LogWithErr("loaded", nil); err != nil {
		t.Fatalf("LogWithErr(nil) = %v", err)
	}

	cause := errors.New("timeout")
	err := LogWithErr("fetch position", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("returned error does not wrap cause: %v", err)
	}
	if !strings.Contains(buf.String(), "❌ ERROR\nfetch position\nError: timeout") {
		t.Errorf("error line missing: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug": LevelDebug,
		"WARN":  LevelWarn,
		"error": LevelError,
		"":      LevelInfo,
		"loud":  LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v; want %v", in, got, want)
		}
	}
}
