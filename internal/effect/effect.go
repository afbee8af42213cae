// Package effect registers optional per-clip video effects that are applied
// as extra links in the extraction filter chain.
package effect

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Effect is a named video filter applied to each extracted clip.
type Effect interface {
	// GetName returns the effect name used on the command line.
	GetName() string

	// GetFilter returns the ffmpeg video filter string, or "" for a no-op.
	GetFilter() string
}

var effects = make(map[string]Effect)

// Register adds an effect to the registry.
func Register(e Effect) {
	effects[e.GetName()] = e
}

// Get returns an effect by name.
func Get(name string) (Effect, error) {
	e, ok := effects[name]
	if !ok {
		return nil, fmt.Errorf("unsupported effect: %s", name)
	}
	return e, nil
}

// GetSupportedEffects returns the sorted list of registered effect names.
func GetSupportedEffects() []string {
	names := make([]string, 0, len(effects))
	for name := range effects {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
