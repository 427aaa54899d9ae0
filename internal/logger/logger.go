package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a component-scoped zerolog wrapper. Every service owns one,
// created with the component name it logs under.
type Logger struct {
	*zerolog.Logger
	component string
}

var envLevels = map[string]zerolog.Level{
	"development": zerolog.DebugLevel,
	"staging":     zerolog.InfoLevel,
	"production":  zerolog.InfoLevel,
}

// New creates a logger for a component, configured from APP_ENV.
func New(component string) *Logger {
	appEnv := os.Getenv("APP_ENV")

	output := zerolog.ConsoleWriter{
		Out: os.Stdout,
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf("[%s] %s", component, i)
		},
		FormatLevel: func(i interface{}) string {
			if level, ok := i.(string); ok {
				switch level {
				case "debug":
					return "\033[36m[DEBUG]\033[0m"
				case "info":
					return "\033[34m[INFO]\033[0m"
				case "warn":
					return "\033[33m[WARN]\033[0m"
				case "error":
					return "\033[31m[ERROR]\033[0m"
				case "fatal":
					return "\033[35m[FATAL]\033[0m"
				default:
					return fmt.Sprintf("[%s]", level)
				}
			}
			return "???"
		},
	}

	level := zerolog.DebugLevel
	if l, ok := envLevels[appEnv]; ok {
		level = l
	}

	var l zerolog.Logger
	if appEnv == "production" {
		output.TimeFormat = ""
		l = zerolog.New(output).Level(level)
	} else {
		zerolog.TimeFieldFormat = time.RFC3339
		output.TimeFormat = "2006-01-02 15:04:05"
		l = zerolog.New(output).Level(level).With().Timestamp().Logger()
	}

	return &Logger{Logger: &l, component: component}
}

func (l *Logger) Success() *zerolog.Event { return l.Logger.Info().Str("level", "success") }

func (l *Logger) LogDebug(msg string)   { l.Debug().Msg(msg) }
func (l *Logger) LogInfo(msg string)    { l.Info().Msg(msg) }
func (l *Logger) LogSuccess(msg string) { l.Success().Msg(msg) }
func (l *Logger) LogWarn(msg string)    { l.Warn().Msg(msg) }

func (l *Logger) LogError(msg string, err error) {
	if err != nil {
		l.Error().Err(err).Msg(msg)
		return
	}
	l.Error().Msg(msg)
}

func (l *Logger) LogDebugf(format string, v ...interface{})   { l.Debug().Msgf(format, v...) }
func (l *Logger) LogInfof(format string, v ...interface{})    { l.Info().Msgf(format, v...) }
func (l *Logger) LogSuccessf(format string, v ...interface{}) { l.Success().Msgf(format, v...) }
func (l *Logger) LogWarnf(format string, v ...interface{})    { l.Warn().Msgf(format, v...) }
func (l *Logger) LogErrorf(format string, v ...interface{})   { l.Error().Msgf(format, v...) }
func (l *Logger) LogFatalf(format string, v ...interface{})   { l.Fatal().Msgf(format, v...) }
