package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger builds the CLI logger. Console output goes to stderr as plain
// messages; if logPath is set the same entries are also written, with
// timestamps and levels, to a rotating log file.
func newLogger(verbose bool, logPath string) *log.Logger {
	logger := log.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&consoleFormatter{})
	logger.SetLevel(log.InfoLevel)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if logPath != "" {
		logger.AddHook(&fileHook{
			writer: &lumberjack.Logger{
				Filename:   filepath.ToSlash(logPath),
				MaxSize:    5, // MB
				MaxBackups: 10,
				MaxAge:     30, // days
			},
			formatter: &log.TextFormatter{FullTimestamp: true, DisableColors: true},
		})
	}

	return logger
}

// consoleFormatter prints the bare message followed by any fields, so that
// codesign diagnostics come out the way codesign printed them.
type consoleFormatter struct{}

func (f *consoleFormatter) Format(entry *log.Entry) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// fileHook writes every entry to a separate writer with its own formatter.
type fileHook struct {
	writer    io.Writer
	formatter log.Formatter
}

func (h *fileHook) Levels() []log.Level {
	return log.AllLevels
}

func (h *fileHook) Fire(entry *log.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(line)
	return err
}
