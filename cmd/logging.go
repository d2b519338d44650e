package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("mikrotik.backup")

// setupLogging routes all loggo output to w at the given level.
func setupLogging(w io.Writer, level string) error {
	lvl, ok := loggo.ParseLevel(level)
	if !ok {
		return fmt.Errorf("invalid --log-level %q", level)
	}
	// RemoveWriter fails harmlessly when the default writer is already gone.
	_, _ = loggo.RemoveWriter(loggo.DefaultWriterName)
	if err := loggo.RegisterWriter(loggo.DefaultWriterName, loggo.NewSimpleWriter(w, logFormatter)); err != nil {
		return fmt.Errorf("configure log writer: %w", err)
	}
	return loggo.ConfigureLoggers(fmt.Sprintf("<root>=%s", lvl.String()))
}

func logFormatter(entry loggo.Entry) string {
	ts := entry.Timestamp.In(time.Local).Format("2006-01-02 15:04:05")
	return fmt.Sprintf("%s %s %s", ts, entry.Level, entry.Message)
}
