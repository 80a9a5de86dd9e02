package logger

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls level, format and optional rotated file output.
type Options struct {
	Level  string
	Format string // "json" or "text"
	File   string // empty disables file output
}

var (
	root   = logrus.New()
	rootMu sync.Mutex
)

// Init configures the shared logger. Safe to call more than once.
func Init(opts Options) *logrus.Logger {
	rootMu.Lock()
	defer rootMu.Unlock()

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	root.SetLevel(level)

	if opts.Format == "json" {
		root.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	} else {
		root.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
		})
	}

	var out io.Writer = os.Stdout
	if opts.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		})
	}
	root.SetOutput(out)

	return root
}

// Get returns the shared logger.
func Get() *logrus.Logger {
	return root
}

// For returns an entry tagged with the component name.
func For(component string) *logrus.Entry {
	return root.WithField("component", component)
}

// Discard returns an entry that drops everything, for tests.
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
