package logger

import (
	"context"

	"github.com/sirupsen/logrus"
)

type ctxKey string

const requestIDKey ctxKey = "requestId"

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
}

// Configure applies the log level and format from config. Unknown values
// fall back to info/text.
func Configure(level, format string) {
	if lvl, err := logrus.ParseLevel(level); err == nil {
		logrus.SetLevel(lvl)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
	if format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

// ContextWithID stamps a context with an operation id so every log line of
// one user action can be correlated.
func ContextWithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// For returns an entry carrying the context's operation id, if any.
func For(ctx context.Context) *logrus.Entry {
	id, ok := ctx.Value(requestIDKey).(string)
	if !ok {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return logrus.WithField("op_id", id)
}
