package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// 超过该大小的日志文件在启动时轮转
const maxLogSize = 10 * 1024 * 1024

var (
	mu      sync.Mutex
	logger  = newLogger("guandan", "info", os.Stdout)
	logFile *os.File
	logPath string
)

func newLogger(appName, level string, w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		ReportCaller:    true,
		CallerOffset:    1,
	})
	l.SetLevel(parseLevel(level))
	return l
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Init 初始化日志，path 为空时输出到标准输出。
// 终端客户端必须写文件，否则日志会打乱界面。
func Init(appName, level, path string) error {
	mu.Lock()
	defer mu.Unlock()

	var w io.Writer = os.Stdout
	if path != "" {
		f, err := openLogFile(path)
		if err != nil {
			return err
		}
		closeFile()
		logFile, logPath = f, path
		w = f
	}

	logger = newLogger(appName, level, w)
	return nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		_ = os.Rename(path, fmt.Sprintf("%s.%d", path, time.Now().Unix()))
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// DefaultPath 客户端日志默认位置 ~/.guandan/client.log
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "guandan", "client.log")
	}
	return filepath.Join(home, ".guandan", "client.log")
}

// Path 当前日志文件路径，输出到标准输出时为空
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Close 关闭日志文件
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeFile()
	logger.SetOutput(os.Stdout)
}

func closeFile() {
	if logFile != nil {
		_ = logFile.Close()
		logFile, logPath = nil, ""
	}
}

func current() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

func Debug(format string, args ...any) {
	current().Debugf(format, args...)
}

func Info(format string, args ...any) {
	current().Infof(format, args...)
}

func Warn(format string, args ...any) {
	current().Warnf(format, args...)
}

func Error(format string, args ...any) {
	current().Errorf(format, args...)
}

// LogPanic 记录 panic 及调用栈
func LogPanic(r any) {
	current().Errorf("panic: %v\n%s", r, debug.Stack())
}
