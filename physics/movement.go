package physics

import (
	"time"

	"github.com/lixenwraith/timeloop/core"
)

// Integrate moves pos along dir at speed for dt; dir is normalized when longer than one
func Integrate(pos, dir core.Vec3, speed float64, dt time.Duration) core.Vec3 {
	l := dir.Len()
	if l == 0 {
		return pos
	}
	if l > 1 {
		dir = dir.Scale(1 / l)
	}
	return pos.Add(dir.Scale(speed * dt.Seconds()))
}
