package timeline

import (
	"fmt"
	"log/slog"

	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/parameter"
)

// Loader reads timeline assets through a registry
type Loader struct {
	Registry *Registry
	Source   engine.AssetSource
	Log      *slog.Logger
}

// Load reads and decodes one timeline; errors carry the asset path
func (l *Loader) Load(path string) (*Timeline, error) {
	id := CleanID(path)
	data, err := l.Source.ReadFile(string(id))
	if err != nil {
		return nil, fmt.Errorf("timeline %q: %w", id, err)
	}
	tl, err := Decode(l.Registry, id, data, l.logger())
	if err != nil {
		return nil, fmt.Errorf("timeline %q: %w", id, err)
	}
	return tl, nil
}

// LoadAll loads every path into lib; a failing file fails only itself
func (l *Loader) LoadAll(lib *Library, paths []string) []error {
	var errs []error
	for _, p := range paths {
		tl, err := l.Load(p)
		if err != nil {
			l.logger().Error("timeline load failed", "target", "time_graph", "path", p, "error", err)
			errs = append(errs, err)
			continue
		}
		lib.Put(tl)
		l.logger().Debug("timeline loaded", "target", "time_graph", "id", tl.ID, "moments", tl.Len())
	}
	return errs
}

// Discover lists timeline assets under the default directory
func (l *Loader) Discover() ([]string, error) {
	return l.Source.List(parameter.TimelineDir, parameter.TimelineExt)
}

func (l *Loader) logger() *slog.Logger {
	if l.Log == nil {
		return slog.Default()
	}
	return l.Log
}
