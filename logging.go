package atlas

import (
	"io"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// NewLogger returns a logfmt logger writing to w. Debug lines are dropped unless debug is set.
func NewLogger(w io.Writer, debug bool) kitlog.Logger {
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(w))
	klog = kitlog.With(klog, "ts", kitlog.DefaultTimestampUTC)
	if debug {
		return level.NewFilter(klog, level.AllowDebug())
	}
	return level.NewFilter(klog, level.AllowInfo())
}

// loggerOrNop never returns a nil logger.
func loggerOrNop(l kitlog.Logger) kitlog.Logger {
	if l == nil {
		return kitlog.NewNopLogger()
	}
	return l
}
