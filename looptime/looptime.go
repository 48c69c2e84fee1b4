// Package looptime defines LoopTime, the signed millisecond offset from the
// loop epoch that every timeline, cursor and lifetime is measured in.
package looptime

import (
	"math"
	"time"
)

// LoopTime is a duration since the beginning of the loop, in milliseconds
// Negative values address history before the epoch
type LoopTime int64

// Epoch is the start of the loop
const Epoch LoopTime = 0

// Min and Max bound the representable range
const (
	Min LoopTime = math.MinInt64
	Max LoopTime = math.MaxInt64
)

// Millis wraps a raw millisecond count
func Millis(ms int64) LoopTime {
	return LoopTime(ms)
}

// Seconds builds a LoopTime from whole seconds
func Seconds(s int64) LoopTime {
	return LoopTime(mulChecked(s, 1000))
}

// FromDuration converts a wall duration, truncating below one millisecond
func FromDuration(d time.Duration) LoopTime {
	return LoopTime(int64(d / time.Millisecond))
}

// FromSeconds converts fractional seconds, truncating toward zero at millisecond resolution
// Panics on NaN, infinities and values outside the LoopTime range
func FromSeconds(s float64) LoopTime {
	ms := math.Trunc(s * 1000)
	if math.IsNaN(ms) || ms >= math.MaxInt64 || ms < math.MinInt64 {
		panic("looptime: seconds value out of range")
	}
	return LoopTime(int64(ms))
}

// Millis returns the raw millisecond count
func (t LoopTime) Millis() int64 {
	return int64(t)
}

// Secs returns whole seconds, truncated toward zero
func (t LoopTime) Secs() int64 {
	return int64(t) / 1000
}

// SecsF returns fractional seconds
func (t LoopTime) SecsF() float64 {
	return float64(t) / 1000
}

// Duration converts to a wall duration, panicking if it does not fit
func (t LoopTime) Duration() time.Duration {
	return time.Duration(mulChecked(int64(t), int64(time.Millisecond)))
}

// Add returns t+o, panicking on overflow
func (t LoopTime) Add(o LoopTime) LoopTime {
	return LoopTime(addChecked(int64(t), int64(o)))
}

// Sub returns t-o, panicking on overflow
func (t LoopTime) Sub(o LoopTime) LoopTime {
	return LoopTime(subChecked(int64(t), int64(o)))
}

// AddDuration advances t by a wall duration
func (t LoopTime) AddDuration(d time.Duration) LoopTime {
	return t.Add(FromDuration(d))
}

// SubDuration rewinds t by a wall duration
func (t LoopTime) SubDuration(d time.Duration) LoopTime {
	return t.Sub(FromDuration(d))
}

// Neg returns -t, panicking for Min
func (t LoopTime) Neg() LoopTime {
	if t == Min {
		panic("looptime: overflow negating minimum value")
	}
	return -t
}

// Abs returns |t|, panicking for Min
func (t LoopTime) Abs() LoopTime {
	if t < 0 {
		return t.Neg()
	}
	return t
}

// Sign returns -1, 0 or 1
func (t LoopTime) Sign() int {
	switch {
	case t < 0:
		return -1
	case t > 0:
		return 1
	default:
		return 0
	}
}

// Before reports t < o
func (t LoopTime) Before(o LoopTime) bool {
	return t < o
}

// After reports t > o
func (t LoopTime) After(o LoopTime) bool {
	return t > o
}

// Compare returns -1, 0 or 1 ordering t against o
func (t LoopTime) Compare(o LoopTime) int {
	switch {
	case t < o:
		return -1
	case t > o:
		return 1
	default:
		return 0
	}
}

// Within reports whether t lies in the half-open range [from, to)
func (t LoopTime) Within(from, to LoopTime) bool {
	return t >= from && t < to
}

func addChecked(a, b int64) int64 {
	c := a + b
	if (b > 0 && c < a) || (b < 0 && c > a) {
		panic("looptime: addition overflow")
	}
	return c
}

func subChecked(a, b int64) int64 {
	c := a - b
	if (b < 0 && c < a) || (b > 0 && c > a) {
		panic("looptime: subtraction overflow")
	}
	return c
}

func mulChecked(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		panic("looptime: multiplication overflow")
	}
	return c
}
