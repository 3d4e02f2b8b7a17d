// Package logger provides leveled, component-tagged logging for the
// assistant. Console output is human readable; an optional file sink
// receives the same entries as JSON lines.
package logger

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

var (
	logLevelNames = map[LogLevel]string{
		DEBUG: "DEBUG",
		INFO:  "INFO",
		WARN:  "WARN",
		ERROR: "ERROR",
		FATAL: "FATAL",
	}

	currentLevel = INFO
	sink         *os.File
	mu           sync.RWMutex
)

// secretFieldNames are field keys whose values are never written out.
var secretFieldNames = map[string]bool{
	"api_key":      true,
	"api_secret":   true,
	"app_password": true,
	"access_token": true,
	"token_secret": true,
}

type LogEntry struct {
	Level     string         `json:"level"`
	Timestamp string         `json:"timestamp"`
	Component string         `json:"component,omitempty"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
}

func GetLevel() LogLevel {
	mu.RLock()
	defer mu.RUnlock()
	return currentLevel
}

func EnableFileLogging(filePath string) error {
	mu.Lock()
	defer mu.Unlock()

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	if sink != nil {
		sink.Close()
	}
	sink = file
	return nil
}

func DisableFileLogging() {
	mu.Lock()
	defer mu.Unlock()

	if sink != nil {
		sink.Close()
		sink = nil
	}
}

func logMessage(level LogLevel, component string, message string, fields map[string]any) {
	mu.RLock()
	if level < currentLevel {
		mu.RUnlock()
		return
	}
	out := sink
	mu.RUnlock()

	fields = redactFields(fields)

	entry := LogEntry{
		Level:     logLevelNames[level],
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Component: component,
		Message:   message,
		Fields:    fields,
	}

	if out != nil {
		jsonData, err := json.Marshal(entry)
		if err == nil {
			out.Write(append(jsonData, '\n'))
		}
	}

	var fieldStr string
	if len(fields) > 0 {
		fieldStr = " " + formatFields(fields)
	}

	log.Printf("[%s] [%s]%s %s%s",
		entry.Timestamp,
		logLevelNames[level],
		formatComponent(component),
		message,
		fieldStr,
	)

	if level == FATAL {
		os.Exit(1)
	}
}

func redactFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return fields
	}
	redacted := make(map[string]any, len(fields))
	for k, v := range fields {
		if secretFieldNames[strings.ToLower(k)] {
			redacted[k] = "[redacted]"
		} else {
			redacted[k] = v
		}
	}
	return redacted
}

func formatComponent(component string) string {
	if component == "" {
		return ""
	}
	return fmt.Sprintf(" %s:", component)
}

func formatFields(fields map[string]any) string {
	parts := make([]string, 0, len(fields))
	for k, v := range fields {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

func Debug(message string)             { logMessage(DEBUG, "", message, nil) }
func DebugC(component, message string) { logMessage(DEBUG, component, message, nil) }
func DebugCF(component, message string, fields map[string]any) {
	logMessage(DEBUG, component, message, fields)
}

func Info(message string)             { logMessage(INFO, "", message, nil) }
func InfoC(component, message string) { logMessage(INFO, component, message, nil) }
func InfoCF(component, message string, fields map[string]any) {
	logMessage(INFO, component, message, fields)
}

func Warn(message string)             { logMessage(WARN, "", message, nil) }
func WarnC(component, message string) { logMessage(WARN, component, message, nil) }
func WarnCF(component, message string, fields map[string]any) {
	logMessage(WARN, component, message, fields)
}

func Error(message string)             { logMessage(ERROR, "", message, nil) }
func ErrorC(component, message string) { logMessage(ERROR, component, message, nil) }
func ErrorCF(component, message string, fields map[string]any) {
	logMessage(ERROR, component, message, fields)
}

func Fatal(message string)             { logMessage(FATAL, "", message, nil) }
func FatalC(component, message string) { logMessage(FATAL, component, message, nil) }
