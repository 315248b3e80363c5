// Package logging はロギング機能を提供します
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ログレベル
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

var levelRank = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// LogEntry はログエントリを表す構造体です
type LogEntry struct {
	// Timestamp はログが記録された時刻をRFC3339形式で表します
	Timestamp string `json:"timestamp"`
	// Level はログレベル（DEBUG, INFO, WARN, ERROR）を表します
	Level string `json:"level"`
	// Message はログメッセージの内容を表します
	Message string `json:"message"`
	// Error はエラーが発生した場合のエラーメッセージを表します
	Error string `json:"error,omitempty"`
}

// Logger は構造化ログを出力するためのインターフェースです
type Logger interface {
	Log(level, message string, err error)
}

// JSONLogger はJSONフォーマットでログを出力するロガーです
type JSONLogger struct {
	mu       sync.Mutex
	writer   io.Writer
	minLevel int
	now      func() time.Time
}

// NewJSONLogger は INFO 以上を出力する JSONLogger を作成します
func NewJSONLogger(writer io.Writer) *JSONLogger {
	if writer == nil {
		writer = os.Stderr
	}
	return &JSONLogger{
		writer:   writer,
		minLevel: levelRank[LevelInfo],
		now:      time.Now,
	}
}

// SetLevel は出力する最小レベルを設定します。未知のレベルは無視して false を返します
func (l *JSONLogger) SetLevel(level string) bool {
	rank, ok := levelRank[strings.ToUpper(level)]
	if !ok {
		return false
	}
	l.mu.Lock()
	l.minLevel = rank
	l.mu.Unlock()
	return true
}

// Log はメッセージをJSONフォーマットでログ出力します
func (l *JSONLogger) Log(level, message string, err error) {
	level = strings.ToUpper(level)
	rank, known := levelRank[level]

	l.mu.Lock()
	defer l.mu.Unlock()

	if known && rank < l.minLevel {
		return
	}

	entry := LogEntry{
		Timestamp: l.now().Format(time.RFC3339),
		Level:     level,
		Message:   message,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	jsonData, mErr := json.Marshal(entry)
	if mErr != nil {
		fmt.Fprintf(os.Stderr, "ログのJSONエンコードに失敗: %v\n", mErr)
		return
	}

	fmt.Fprintln(l.writer, string(jsonData))
}

type nopLogger struct{}

func (nopLogger) Log(string, string, error) {}

// NewNopLogger は何も出力しないロガーを返します
func NewNopLogger() Logger {
	return nopLogger{}
}
