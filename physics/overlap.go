package physics

import (
	"github.com/lixenwraith/timeloop/component"
	"github.com/lixenwraith/timeloop/core"
	"github.com/lixenwraith/timeloop/engine"
	"github.com/lixenwraith/timeloop/parameter"
)

// OverlapSource reports which bodies currently intersect a sensor
// Installed as an engine resource so tests and alternative backends can replace it
type OverlapSource interface {
	Overlapping(w *engine.World, sensor core.Entity) []core.Entity
}

// SphereOverlap tests sensor balls against player bodies using transforms
type SphereOverlap struct {
	// BodyRadius is the player's ball radius
	BodyRadius float64
}

// NewSphereOverlap creates the default overlap backend
func NewSphereOverlap() *SphereOverlap {
	return &SphereOverlap{BodyRadius: parameter.PlayerRadius}
}

// Overlapping returns players whose ball intersects the sensor's ball
// Sensors without a transform or sensor component overlap nothing
func (s *SphereOverlap) Overlapping(w *engine.World, sensor core.Entity) []core.Entity {
	transforms := engine.StoreOf[component.TransformComponent](w)
	sensorTf, ok := transforms.Get(sensor)
	if !ok {
		return nil
	}
	sc, ok := engine.StoreOf[component.SensorComponent](w).Get(sensor)
	if !ok {
		return nil
	}

	var out []core.Entity
	for _, p := range engine.StoreOf[component.PlayerComponent](w).All() {
		ptf, ok := transforms.Get(p)
		if !ok {
			continue
		}
		if Intersects(sensorTf.Translation, sc.Radius, ptf.Translation, s.BodyRadius) {
			out = append(out, p)
		}
	}
	return out
}

// Intersects reports whether two balls touch or overlap
func Intersects(a core.Vec3, ra float64, b core.Vec3, rb float64) bool {
	d := a.Sub(b)
	r := ra + rb
	return d.X*d.X+d.Y*d.Y+d.Z*d.Z <= r*r
}

// OverlapResource resolves the installed OverlapSource, falling back to spheres
func OverlapResource(w *engine.World) OverlapSource {
	if src, ok := engine.GetResource[OverlapSource](w.Resources); ok {
		return src
	}
	return NewSphereOverlap()
}
