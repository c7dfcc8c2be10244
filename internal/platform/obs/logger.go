package obs

import (
	"context"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

var base atomic.Pointer[logrus.Logger]

func init() {
	base.Store(NewLogger("info", os.Stdout))
}

// NewLogger builds a JSON logrus logger. Unknown levels fall back to info.
func NewLogger(level string, out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	return l
}

// SetLogger replaces the process-wide logger.
func SetLogger(l *logrus.Logger) { base.Store(l) }

func Logger() *logrus.Logger { return base.Load() }

// L returns a log entry carrying the request id stored in ctx, if any.
func L(ctx context.Context) *logrus.Entry {
	e := logrus.NewEntry(base.Load())
	if ctx == nil {
		return e
	}
	if reqID, ok := ctx.Value(RequestIDKey).(string); ok && reqID != "" {
		e = e.WithField("req_id", reqID)
	}
	return e
}

// WithRequestID stores the request id used by L and Time.
func WithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, reqID)
}
