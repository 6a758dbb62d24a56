package logging

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// NewLogger builds the tool's logger.  An empty level means "info";
// OAREDIT_JSON_LOG=1 switches to JSON lines.
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}
	if level == "" {
		level = "info"
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: os.Getenv("OAREDIT_JSON_LOG") == "1",
		Output:     output,
		TimeFormat: "2006-01-02 15:04:05",
		TimeFn:     time.Now,
	})
}

// Valid reports whether hclog understands level.
func Valid(level string) bool {
	return hclog.LevelFromString(level) != hclog.NoLevel
}
