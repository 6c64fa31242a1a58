package geometry

import (
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

type loggerRef struct {
	logrus.FieldLogger
}

var loggerPtr atomic.Pointer[loggerRef]

func init() {
	loggerPtr.Store(&loggerRef{newDiscardLogger()})
}

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

// SetLogger configures the logger used by the overlay and validity code. By default nothing is logged. Pass nil to restore the silent default. It is safe for concurrent use.
//
// Levels used:
//   - Debug: turn and fragment counts per overlay and the split policy of its segment index
//   - Warn: rings that were aborted during traversal
//
// Example:
//
//	l := logrus.New()
//	l.SetLevel(logrus.DebugLevel)
//	geometry.SetLogger(l.WithField("component", "overlay"))
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = newDiscardLogger()
	}
	loggerPtr.Store(&loggerRef{l})
}

// Logger returns the current logger.
func Logger() logrus.FieldLogger {
	return loggerPtr.Load().FieldLogger
}
