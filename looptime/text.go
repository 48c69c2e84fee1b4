package looptime

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every parse failure
var ErrInvalid = errors.New("invalid loop time")

// unit scales in milliseconds; sub-millisecond units carry their nanosecond scale separately
var msUnits = map[string]uint64{
	"ms": 1, "msec": 1, "msecs": 1, "millis": 1,
	"s": 1000, "sec": 1000, "secs": 1000, "second": 1000, "seconds": 1000,
	"m": 60_000, "min": 60_000, "mins": 60_000, "minute": 60_000, "minutes": 60_000,
	"h": 3_600_000, "hr": 3_600_000, "hrs": 3_600_000, "hour": 3_600_000, "hours": 3_600_000,
	"d": 86_400_000, "day": 86_400_000, "days": 86_400_000,
}

var nsUnits = map[string]uint64{
	"ns": 1, "nsec": 1, "nsecs": 1,
	"us": 1_000, "usec": 1_000, "usecs": 1_000,
}

// Parse reads the human-readable encoding: an optional sign followed by
// one or more <integer><unit> groups, e.g. "-1h20m", "45s", "1m 30s 500ms"
// A bare "0" is accepted as the epoch
func Parse(s string) (LoopTime, error) {
	src := s
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalid)
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	s = strings.TrimSpace(s)
	if s == "0" {
		return Epoch, nil
	}
	if s == "" {
		return 0, fmt.Errorf("%w: %q has no value", ErrInvalid, src)
	}

	// Magnitudes are unsigned so Min, whose magnitude is MaxInt64+1, parses
	limit := uint64(math.MaxInt64)
	if neg {
		limit++
	}
	overflow := fmt.Errorf("%w: %q: overflow", ErrInvalid, src)

	var ms, ns uint64
	for len(s) > 0 {
		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 0 {
			return 0, fmt.Errorf("%w: %q: expected number at %q", ErrInvalid, src, s)
		}
		n, err := strconv.ParseUint(s[:i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: number too large", ErrInvalid, src)
		}
		s = s[i:]

		j := 0
		for j < len(s) && isUnitByte(s[j]) {
			j++
		}
		if j == 0 {
			return 0, fmt.Errorf("%w: %q: missing unit after %d", ErrInvalid, src, n)
		}
		unit := s[:j]
		s = strings.TrimLeft(s[j:], " ")

		if scale, ok := msUnits[unit]; ok {
			v, ok := mulOK(n, scale)
			if !ok {
				return 0, overflow
			}
			if ms, ok = addOK(ms, v, limit); !ok {
				return 0, overflow
			}
			continue
		}
		if scale, ok := nsUnits[unit]; ok {
			v, ok := mulOK(n, scale)
			if !ok {
				return 0, overflow
			}
			if ns, ok = addOK(ns, v, math.MaxUint64); !ok {
				return 0, overflow
			}
			continue
		}
		return 0, fmt.Errorf("%w: %q: unknown unit %q", ErrInvalid, src, unit)
	}

	total, ok := addOK(ms, ns/1_000_000, limit)
	if !ok {
		return 0, overflow
	}
	if neg {
		// total-1 fits in int64 for every total in [1, MaxInt64+1]; 0 wraps back to 0
		return LoopTime(-int64(total-1) - 1), nil
	}
	return LoopTime(total), nil
}

// MustParse is Parse for literals known to be valid
func MustParse(s string) LoopTime {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// String renders the signed human-readable form, "0s" for the epoch
func (t LoopTime) String() string {
	if t == 0 {
		return "0s"
	}

	var b strings.Builder
	// Min has no positive counterpart; magnitude is handled as uint64
	var mag uint64
	if t < 0 {
		b.WriteByte('-')
		mag = uint64(-(t + 1)) + 1
	} else {
		mag = uint64(t)
	}

	parts := [...]struct {
		scale uint64
		unit  string
	}{
		{86_400_000, "d"},
		{3_600_000, "h"},
		{60_000, "m"},
		{1000, "s"},
		{1, "ms"},
	}

	first := true
	for _, p := range parts {
		n := mag / p.scale
		mag %= p.scale
		if n == 0 {
			continue
		}
		if !first {
			b.WriteByte(' ')
		}
		first = false
		b.WriteString(strconv.FormatUint(n, 10))
		b.WriteString(p.unit)
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler
func (t LoopTime) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *LoopTime) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MarshalYAML encodes as a plain string scalar
func (t LoopTime) MarshalYAML() (any, error) {
	return t.String(), nil
}

// UnmarshalYAML accepts a scalar in the human-readable form
func (t *LoopTime) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: expected scalar", ErrInvalid, node.Line)
	}
	v, err := Parse(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*t = v
	return nil
}

func isUnitByte(c byte) bool {
	return c >= 'a' && c <= 'z'
}

// addOK returns a+b when it does not exceed limit
func addOK(a, b, limit uint64) (uint64, bool) {
	if b > limit || a > limit-b {
		return 0, false
	}
	return a + b, true
}

func mulOK(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxUint64/b {
		return 0, false
	}
	return a * b, true
}
