package methodology

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Dimension is one scored aspect of a call
type Dimension struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
	Focus string `yaml:"focus"`
}

// Definition describes a sales methodology
type Definition struct {
	Key              string      `yaml:"key"`
	Name             string      `yaml:"name"`
	Guidance         string      `yaml:"guidance"`
	PlanningGuidance string      `yaml:"planning_guidance"`
	Dimensions       []Dimension `yaml:"dimensions"`
}

// DimensionKeys returns the JSON keys of the dimensions, in order
func (d Definition) DimensionKeys() []string {
	keys := make([]string, len(d.Dimensions))
	for i, dim := range d.Dimensions {
		keys[i] = dim.Key
	}
	return keys
}

type catalog struct {
	Default       string       `yaml:"default"`
	Methodologies []Definition `yaml:"methodologies"`
}

// Registry is the read-only methodology catalog. Build it once at startup
// and share it.
type Registry struct {
	defs       map[string]Definition
	keys       []string
	defaultKey string
}

// NewRegistry parses the embedded catalog. An empty defaultKey keeps the
// catalog's own default.
func NewRegistry(defaultKey string) (*Registry, error) {
	return parse(catalogYAML, defaultKey)
}

// MustNewRegistry is NewRegistry for wiring code that cannot continue without it
func MustNewRegistry(defaultKey string) *Registry {
	r, err := NewRegistry(defaultKey)
	if err != nil {
		panic(err)
	}
	return r
}

func parse(raw []byte, defaultKey string) (*Registry, error) {
	var c catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to parse methodology catalog: %w", err)
	}

	r := &Registry{defs: make(map[string]Definition, len(c.Methodologies))}
	for _, def := range c.Methodologies {
		key := normalize(def.Key)
		if key == "" {
			return nil, fmt.Errorf("methodology without key in catalog")
		}
		if _, dup := r.defs[key]; dup {
			return nil, fmt.Errorf("duplicate methodology %q in catalog", key)
		}
		if len(def.Dimensions) == 0 {
			return nil, fmt.Errorf("methodology %q has no dimensions", key)
		}
		def.Key = key
		def.Guidance = strings.TrimSpace(def.Guidance)
		def.PlanningGuidance = strings.TrimSpace(def.PlanningGuidance)
		r.defs[key] = def
		r.keys = append(r.keys, key)
	}

	r.defaultKey = normalize(defaultKey)
	if r.defaultKey == "" {
		r.defaultKey = normalize(c.Default)
	}
	if _, ok := r.defs[r.defaultKey]; !ok {
		return nil, fmt.Errorf("default methodology %q is not in the catalog", r.defaultKey)
	}
	return r, nil
}

// Lookup returns the definition for key. Unknown or empty keys resolve to
// the default methodology instead of failing.
func (r *Registry) Lookup(key string) Definition {
	if def, ok := r.defs[normalize(key)]; ok {
		return def
	}
	return r.defs[r.defaultKey]
}

// Known reports whether key names a catalog entry
func (r *Registry) Known(key string) bool {
	_, ok := r.defs[normalize(key)]
	return ok
}

// Default returns the fallback definition
func (r *Registry) Default() Definition {
	return r.defs[r.defaultKey]
}

// Keys lists catalog keys in catalog order
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
