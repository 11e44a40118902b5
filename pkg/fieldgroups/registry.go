// Package fieldgroups keeps an ordered set of custom field-group definitions
// that a host registers when it initialises its editing screens. The default
// registry is empty.
package fieldgroups

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Display styles understood by hosts.
const (
	StyleDefault  = "default"
	StyleSeamless = "seamless"
)

// ErrDuplicateKey is returned when a group key is registered twice.
var ErrDuplicateKey = errors.New("fieldgroups: duplicate key")

// Field is one input of a group.
type Field struct {
	Key   string `json:"key" yaml:"key"`
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label" yaml:"label"`
	Type  string `json:"type" yaml:"type"`
}

// Rule matches an editing screen, e.g. {"post_type", "==", "album"}.
type Rule struct {
	Param    string `json:"param" yaml:"param"`
	Operator string `json:"operator" yaml:"operator"`
	Value    string `json:"value" yaml:"value"`
}

// Group is a field-group definition. Location is a list of alternatives; every
// rule inside one alternative must match.
type Group struct {
	Key      string   `json:"key" yaml:"key"`
	Title    string   `json:"title" yaml:"title"`
	Fields   []Field  `json:"fields" yaml:"fields"`
	Location [][]Rule `json:"location" yaml:"location"`
	Style    string   `json:"style,omitempty" yaml:"style,omitempty"`
}

// Registrar is the host side that accepts field groups.
type Registrar interface {
	RegisterFieldGroup(ctx context.Context, group Group) error
}

// Registry stores groups in insertion order.
type Registry struct {
	mu     sync.RWMutex
	groups []Group
	keys   map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{keys: make(map[string]struct{})}
}

// Add validates and stores group.
func (r *Registry) Add(group Group) error {
	group.Key = strings.TrimSpace(group.Key)
	if group.Key == "" {
		return fmt.Errorf("fieldgroups: group key is required")
	}
	if group.Style == "" {
		group.Style = StyleDefault
	}
	if group.Style != StyleDefault && group.Style != StyleSeamless {
		return fmt.Errorf("fieldgroups: group %q: unknown style %q", group.Key, group.Style)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.keys == nil {
		r.keys = make(map[string]struct{})
	}
	if _, exists := r.keys[group.Key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, group.Key)
	}
	r.keys[group.Key] = struct{}{}
	r.groups = append(r.groups, cloneGroup(group))
	return nil
}

// Groups returns copies of the registered groups in insertion order.
func (r *Registry) Groups() []Group {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.groups) == 0 {
		return nil
	}
	out := make([]Group, len(r.groups))
	for i, group := range r.groups {
		out[i] = cloneGroup(group)
	}
	return out
}

// RegisterAll hands every group to registrar, stopping at the first error.
func (r *Registry) RegisterAll(ctx context.Context, registrar Registrar) error {
	if registrar == nil {
		return fmt.Errorf("fieldgroups: registrar is required")
	}
	for _, group := range r.Groups() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := registrar.RegisterFieldGroup(ctx, group); err != nil {
			return fmt.Errorf("fieldgroups: register %q: %w", group.Key, err)
		}
	}
	return nil
}

func cloneGroup(group Group) Group {
	group.Fields = append([]Field(nil), group.Fields...)
	if group.Location != nil {
		location := make([][]Rule, len(group.Location))
		for i, rules := range group.Location {
			location[i] = append([]Rule(nil), rules...)
		}
		group.Location = location
	}
	return group
}
