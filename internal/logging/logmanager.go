//
//  Copyright © EduShield Inc. All rights reserved.
//

package logging

import (
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"
)

// LogManager keeps track of all instantiated loggers
type LogManager struct {
	loggers  map[string]*Logger
	defLevel zapcore.Level
}

// Manager's singleton variables
var (
	manager *LogManager
	mu      sync.RWMutex
	once    sync.Once
)

// resetForTesting resets the manager state - only for testing
func resetForTesting() {
	mu.Lock()
	defer mu.Unlock()
	manager = nil
	once = sync.Once{}
}

// GetLogger returns a logger for the specified module
func GetLogger(module string) *Logger {
	once.Do(initManager)

	mu.RLock()
	if aLogger := manager.loggers[module]; aLogger != nil {
		mu.RUnlock()
		return aLogger
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()

	// Double-check after acquiring write lock
	if aLogger := manager.loggers[module]; aLogger != nil {
		return aLogger
	}

	aLogger := newLogger(module)
	aLogger.SetLevel(manager.defLevel)
	manager.loggers[module] = aLogger

	return aLogger
}

func initManager() {
	manager = &LogManager{
		loggers:  make(map[string]*Logger),
		defLevel: zapcore.InfoLevel,
	}
}

// parseLevel converts a string level to zapcore.Level
func parseLevel(levelStr string) zapcore.Level {
	switch strings.ToLower(levelStr) {
	case "panic":
		return zapcore.PanicLevel
	case "fatal":
		return zapcore.FatalLevel
	case "error":
		return zapcore.ErrorLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "debug", "trace":
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// UpdateLogLevels updates log levels from a string of the form:
// "mod1:debug;mod2:error;.:info"
// Allows whitespace for readability
func UpdateLogLevels(logstr string) error {
	once.Do(initManager)

	for _, s := range []string{" ", "\t", "\n"} {
		logstr = strings.ReplaceAll(logstr, s, "")
	}

	mu.Lock()
	defer mu.Unlock()

	// Track which modules have explicit levels set
	explicit := make(map[string]bool)
	var defaultLevel zapcore.Level
	hasDefault := false

	for _, l := range strings.Split(logstr, ";") {
		parts := strings.Split(l, ":")
		if len(parts) != 2 {
			continue
		}

		module, level := parts[0], parseLevel(parts[1])

		if module == "." {
			defaultLevel = level
			hasDefault = true
			continue
		}

		explicit[module] = true
		logger := manager.loggers[module]
		if logger == nil {
			logger = newLogger(module)
			manager.loggers[module] = logger
		}
		logger.SetLevel(level)
	}

	// Apply the default to any module without an explicit level
	if hasDefault {
		manager.defLevel = defaultLevel
		for mod, logger := range manager.loggers {
			if !explicit[mod] {
				logger.SetLevel(defaultLevel)
			}
		}
	}

	return nil
}
