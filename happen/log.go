package happen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/timeline"
)

// LevelTrace sits below debug for chatty content diagnostics
const LevelTrace = slog.LevelDebug - 4

// Level is a log level spelled trace|debug|info|warn|error in content
type Level slog.Level

// UnmarshalYAML parses the level name
func (l *Level) UnmarshalYAML(node *yaml.Node) error {
	switch strings.ToLower(node.Value) {
	case "trace":
		*l = Level(LevelTrace)
	case "debug":
		*l = Level(slog.LevelDebug)
	case "info", "":
		*l = Level(slog.LevelInfo)
	case "warn", "warning":
		*l = Level(slog.LevelWarn)
	case "error":
		*l = Level(slog.LevelError)
	default:
		return fmt.Errorf("line %d: unknown log level %q", node.Line, node.Value)
	}
	return nil
}

// MarshalYAML writes the level name
func (l Level) MarshalYAML() (any, error) {
	switch slog.Level(l) {
	case LevelTrace:
		return "trace", nil
	case slog.LevelDebug:
		return "debug", nil
	case slog.LevelWarn:
		return "warn", nil
	case slog.LevelError:
		return "error", nil
	default:
		return "info", nil
	}
}

// Log writes a message at the given level under target=happens
type Log struct {
	Level Level  `yaml:"level"`
	Msg   string `yaml:"msg"`
}

// Apply implements timeline.Action
func (a *Log) Apply(w *engine.World) {
	attrs := []any{"target", "happens"}
	if loop, ok := engine.GetResource[*timeline.TimeLoop](w.Resources); ok {
		attrs = append(attrs, "at", loop.Curr.String())
	}
	engine.Logger(w).Log(context.Background(), slog.Level(a.Level), a.Msg, attrs...)
}
