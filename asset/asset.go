// Package asset embeds the default game content.
package asset

import (
	"embed"

	"github.com/lixenwraith/timeloop/engine"
)

//go:embed tl/*.tl.yaml
var content embed.FS

// Source serves the embedded timelines
func Source() engine.AssetSource {
	return &engine.FSSource{FS: content}
}
