package notifier

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Level is the severity of a toast.
type Level string

const (
	LevelError   Level = "error"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

var defaultTitles = map[Level]string{
	LevelError:   "Error",
	LevelSuccess: "Success",
	LevelWarning: "Warning",
	LevelInfo:    "Notice",
}

var icons = map[Level]string{
	LevelError:   "❌",
	LevelSuccess: "✅",
	LevelWarning: "⚠️",
	LevelInfo:    "ℹ️",
}

// Toast is a short user-facing message.
type Toast struct {
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// NewToast builds a toast, defaulting the title from the level.
func NewToast(level Level, message, title string) Toast {
	if title == "" {
		title = defaultTitles[level]
	}
	return Toast{Level: level, Title: title, Message: message}
}

// Icon returns the glyph shown next to the toast.
func (t Toast) Icon() string {
	if ic, ok := icons[t.Level]; ok {
		return ic
	}
	return icons[LevelInfo]
}

// Notifier surfaces toasts to the user.
type Notifier interface {
	Notify(t Toast)
}

// LogNotifier writes toasts to the log at a level matching their severity.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (LogNotifier) Notify(t Toast) {
	entry := log.WithField("title", t.Title)
	switch t.Level {
	case LevelError:
		entry.Errorf("%s %s", t.Icon(), t.Message)
	case LevelWarning:
		entry.Warnf("%s %s", t.Icon(), t.Message)
	default:
		entry.Infof("%s %s", t.Icon(), t.Message)
	}
}

// Memory keeps every toast it receives. Safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	toasts []Toast
}

func (m *Memory) Notify(t Toast) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toasts = append(m.toasts, t)
}

// Toasts returns a copy of the received toasts.
func (m *Memory) Toasts() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Toast(nil), m.toasts...)
}
