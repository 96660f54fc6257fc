// Package logging is a thin wrapper of zap logging library.
//
// The log level of a package is taken from the environment variable
// DERTREE_LOG_<pkg>, falling back to DERTREE_LOG. Only the first letter of the
// value is significant:
//
//	V, D  debug
//	I     info (default)
//	W     warn
//	E     error
//	F, N  fatal
package logging

import (
	"os"
	"sync"
	"unicode"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var root = func() *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		os.Stderr,
		zap.DebugLevel,
	)
	return zap.New(core)
}()

var (
	levelsMu  sync.Mutex
	pkgLevels = map[string]zap.AtomicLevel{}
)

// New creates a logger initialized with configured log level.
//
// By convention, this should appear in the same .go file as the package docstring:
//
//	var logger = logging.New("Foo")
func New(pkg string) *zap.Logger {
	return root.Named(pkg).WithOptions(zap.IncreaseLevel(level(pkg)))
}

// SetLevel changes the log level of a package. The level is given as a letter,
// as in the environment variables. An unrecognized letter selects info.
func SetLevel(pkg string, lvl string) {
	level(pkg).SetLevel(parseLevel(lvl))
}

// GetLevel returns configured log level of a package as a letter.
func GetLevel(pkg string) rune {
	lvl, ok := os.LookupEnv("DERTREE_LOG_" + pkg)
	if !ok {
		lvl, ok = os.LookupEnv("DERTREE_LOG")
	}
	if !ok || len(lvl) == 0 {
		return 0
	}
	return rune(lvl[0])
}

func level(pkg string) zap.AtomicLevel {
	levelsMu.Lock()
	defer levelsMu.Unlock()
	al, ok := pkgLevels[pkg]
	if !ok {
		al = zap.NewAtomicLevelAt(parseLevel(string(GetLevel(pkg))))
		pkgLevels[pkg] = al
	}
	return al
}

func parseLevel(lvl string) zapcore.Level {
	if len(lvl) == 0 {
		return zapcore.InfoLevel
	}
	switch unicode.ToUpper(rune(lvl[0])) {
	case 'V', 'D':
		return zapcore.DebugLevel
	case 'I':
		return zapcore.InfoLevel
	case 'W':
		return zapcore.WarnLevel
	case 'E':
		return zapcore.ErrorLevel
	case 'F', 'N':
		return zapcore.DPanicLevel
	}
	return zapcore.InfoLevel
}
