package logger

import (
	"fmt"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu  sync.RWMutex
	log = zap.NewNop()
)

// Init replaces the package logger. Debug output is enabled when debug is true
// or DEBUG=1 is set in the environment; otherwise only warnings and errors are
// written to stderr.
func Init(debug bool) error {
	debug = debug || os.Getenv("DEBUG") == "1"

	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return eris.Wrap(err, "building logger")
	}
	Set(l)
	return nil
}

// Set installs l as the package logger.
func Set(l *zap.Logger) {
	mu.Lock()
	log = l
	mu.Unlock()
}

// L returns the package logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func DebugLog(format string, args ...any) {
	l := L()
	if !l.Core().Enabled(zapcore.DebugLevel) {
		return
	}
	if ce := l.WithOptions(zap.AddCallerSkip(1)).Check(zapcore.DebugLevel, ""); ce != nil {
		ce.Message = fmt.Sprintf(format, args...)
		ce.Write()
	}
}

func Sync() {
	_ = L().Sync()
}
