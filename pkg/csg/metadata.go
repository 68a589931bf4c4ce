package csg

import (
	"fmt"
	"image/color"
	"maps"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Metadata is a property bag referenced by polygons. Polygons split or
// cloned from one another share the same handle; the kernel never reads
// it except to carry it along.
type Metadata struct {
	mu    sync.RWMutex
	props map[string]any
	color color.NRGBA
	set   bool
}

// NewMetadata returns an empty bag.
func NewMetadata() *Metadata {
	return &Metadata{props: make(map[string]any)}
}

// Get returns the value stored under key.
func (m *Metadata) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.props[key]
	return v, ok
}

// Set stores value under key.
func (m *Metadata) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.props[key] = value
}

// Color returns the stored color and whether one was set.
func (m *Metadata) Color() (color.NRGBA, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.color, m.set
}

// SetColor stores c.
func (m *Metadata) SetColor(c color.NRGBA) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.color, m.set = c, true
}

// Clone returns an unshared copy.
func (m *Metadata) Clone() *Metadata {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &Metadata{props: maps.Clone(m.props), color: m.color, set: m.set}
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa".
func ParseHexColor(s string) (color.NRGBA, error) {
	c := color.NRGBA{A: 0xff}
	s = strings.TrimPrefix(s, "#")
	var err error
	switch len(s) {
	case 6:
		_, err = fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B)
	case 8:
		_, err = fmt.Sscanf(s, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	default:
		err = fmt.Errorf("want 6 or 8 hex digits, got %d", len(s))
	}
	if err != nil {
		return color.NRGBA{}, errors.Wrapf(err, "csg: parse color %q", s)
	}
	return c, nil
}

// HexColor formats c as "#rrggbb".
func HexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
