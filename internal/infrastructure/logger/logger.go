package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Setup configures the process-wide logrus logger.
//
// format is "json" (default) or "text"; level is any logrus level name.
func Setup(level, format string, service string) error {
	return setup(log.StandardLogger(), os.Stdout, level, format, service)
}

func setup(l *log.Logger, out io.Writer, level, format string, service string) error {
	lvl, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		l.SetFormatter(&serviceFormatter{service: service, next: &log.JSONFormatter{}})
	case "text":
		l.SetFormatter(&serviceFormatter{service: service, next: &log.TextFormatter{FullTimestamp: true}})
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q (must be json or text)", format)
	}

	l.SetOutput(out)
	l.SetLevel(lvl)
	return nil
}

// serviceFormatter stamps every entry with the service name.
type serviceFormatter struct {
	service string
	next    log.Formatter
}

func (f *serviceFormatter) Format(e *log.Entry) ([]byte, error) {
	if f.service != "" {
		if _, ok := e.Data["service"]; !ok {
			e.Data["service"] = f.service
		}
	}
	return f.next.Format(e)
}
