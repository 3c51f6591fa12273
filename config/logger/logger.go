package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timeFormat = "2006-01-02 15:04:05.000"

type CommonLogger struct {
	Info    zerolog.Logger
	Error   zerolog.Logger
	Trace   zerolog.Logger
	Warning zerolog.Logger
}

// AppLogger splits domain logging (usecases, database) from the realtime feed.
type AppLogger struct {
	Service CommonLogger
	WS      CommonLogger
}

type Options struct {
	Dir        string
	Level      string
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
	// Console defaults to stdout.
	Console io.Writer
}

// NewLogger writes every channel to the console and to its own rotated file
// under opts.Dir: info.log, ws.info.log and so on.
func NewLogger(opts Options) (*AppLogger, error) {
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}
	consoleWriter := newFormatWriter(console, false)

	channel := func(prefix string) CommonLogger {
		open := func(name string) zerolog.Logger {
			file := &lumberjack.Logger{
				Filename:   filepath.Join(opts.Dir, prefix+name+".log"),
				MaxSize:    opts.MaxSizeMB,
				MaxAge:     opts.MaxAgeDays,
				MaxBackups: opts.MaxBackups,
				Compress:   true,
			}
			out := io.MultiWriter(consoleWriter, newFormatWriter(file, true))
			return zerolog.New(out).Level(level).With().Timestamp().Logger()
		}
		return CommonLogger{
			Info:    open("info"),
			Error:   open("error"),
			Trace:   open("trace"),
			Warning: open("warning"),
		}
	}

	return &AppLogger{Service: channel(""), WS: channel("ws.")}, nil
}

// NewNopLogger discards everything; used by tests and tools.
func NewNopLogger() *AppLogger {
	nop := zerolog.Nop()
	common := CommonLogger{Info: nop, Error: nop, Trace: nop, Warning: nop}
	return &AppLogger{Service: common, WS: common}
}

func newFormatWriter(out io.Writer, plain bool) zerolog.ConsoleWriter {
	writer := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    plain,
		TimeFormat: timeFormat,
		FormatTimestamp: func(i interface{}) string {
			return fmt.Sprintf("[%s]", i)
		},
		FormatLevel: func(i interface{}) string {
			return fmt.Sprintf("[%s]", strings.ToUpper(fmt.Sprint(i)))
		},
		FormatMessage: func(i interface{}) string {
			return fmt.Sprint(i)
		},
	}
	if plain {
		writer.FormatFieldName = func(i interface{}) string {
			return fmt.Sprintf("%s=", i)
		}
		writer.FormatFieldValue = func(i interface{}) string {
			return fmt.Sprint(i)
		}
	}
	return writer
}
