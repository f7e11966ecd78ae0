package logging

import (
	"fmt"
	"log"
	"sort"
	"sync"
)

// Компоненты, которым выдаются отдельные логгеры
const (
	ComponentWorld   = "world"
	ComponentLight   = "light"
	ComponentStorage = "storage"
	ComponentAPI     = "api"
)

// LoggerManager хранит логгеры компонентов
type LoggerManager struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}

var (
	globalManager *LoggerManager
	managerOnce   sync.Once
)

// GetLoggerManager возвращает глобальный менеджер логгеров
func GetLoggerManager() *LoggerManager {
	managerOnce.Do(func() {
		globalManager = &LoggerManager{loggers: make(map[string]*Logger)}
	})
	return globalManager
}

// GetLogger возвращает логгер компонента, создавая его при первом обращении
func (lm *LoggerManager) GetLogger(component string) (*Logger, error) {
	lm.mu.RLock()
	logger, ok := lm.loggers[component]
	lm.mu.RUnlock()
	if ok {
		return logger, nil
	}

	lm.mu.Lock()
	defer lm.mu.Unlock()

	// другой вызов мог успеть создать логгер
	if logger, ok := lm.loggers[component]; ok {
		return logger, nil
	}

	logger, err := NewLogger(component)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать логгер %s: %w", component, err)
	}
	lm.loggers[component] = logger
	return logger, nil
}

// MustGetLogger возвращает логгер компонента. Если файл логов создать
// не удалось, возвращает логгер только с консольным выводом.
func (lm *LoggerManager) MustGetLogger(component string) *Logger {
	logger, err := lm.GetLogger(component)
	if err == nil {
		return logger
	}

	settingsMu.RLock()
	out, level := consoleOutput, defaultConsoleLevel
	settingsMu.RUnlock()

	fallback := &Logger{
		component:       component,
		consoleLogger:   log.New(out, "", log.LstdFlags),
		minConsoleLevel: level,
		minFileLevel:    ERROR,
	}
	fallback.Warn("%v; запись только в консоль", err)
	return fallback
}

// CloseAll закрывает файлы всех логгеров и забывает их
func (lm *LoggerManager) CloseAll() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	var lastErr error
	for component, logger := range lm.loggers {
		if err := logger.Close(); err != nil {
			lastErr = fmt.Errorf("не удалось закрыть логгер %s: %w", component, err)
		}
	}
	lm.loggers = make(map[string]*Logger)
	return lastErr
}

// ListComponents возвращает отсортированный список компонентов
func (lm *LoggerManager) ListComponents() []string {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	components := make([]string, 0, len(lm.loggers))
	for component := range lm.loggers {
		components = append(components, component)
	}
	sort.Strings(components)
	return components
}

// SetLogLevel меняет уровни логгера компонента
func (lm *LoggerManager) SetLogLevel(component string, consoleLevel, fileLevel LogLevel) error {
	lm.mu.RLock()
	logger, ok := lm.loggers[component]
	lm.mu.RUnlock()

	if !ok {
		return fmt.Errorf("логгер компонента %s не найден", component)
	}
	logger.minConsoleLevel = consoleLevel
	logger.minFileLevel = fileLevel
	return nil
}

// GetComponentLogger возвращает логгер компонента из глобального менеджера
func GetComponentLogger(component string) *Logger {
	return GetLoggerManager().MustGetLogger(component)
}

// GetWorldLogger возвращает логгер мира
func GetWorldLogger() *Logger { return GetComponentLogger(ComponentWorld) }

// GetLightLogger возвращает логгер освещения
func GetLightLogger() *Logger { return GetComponentLogger(ComponentLight) }

func GetStorageLogger() *Logger { return GetComponentLogger(ComponentStorage) }

func GetAPILogger() *Logger { return GetComponentLogger(ComponentAPI) }
