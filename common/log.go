package common

import (
	log "github.com/sirupsen/logrus"
	"golang.org/x/term"
	"io"
	"os"
)

// SetLogLevel configures the global logger. Output goes to stderr as text on a
// terminal and as JSON otherwise.
func SetLogLevel(level string) error {
	return SetLogOutput(level, os.Stderr)
}

func SetLogOutput(level string, out io.Writer) error {
	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return NewError("invalid log level " + level).Base(err)
	}
	log.SetLevel(lvl)
	log.SetOutput(out)
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp: true,
		})
	} else {
		log.SetFormatter(&log.JSONFormatter{})
	}
	return nil
}
