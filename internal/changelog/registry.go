package changelog

import (
	"fmt"
	"strings"
)

// Type declares one changelog category: the commit prefix that selects it and
// how its commits are presented.
type Type struct {
	// Prefix is the commit message token that routes a commit to this type,
	// e.g. "feat" for "feat: add dark mode".
	Prefix string `koanf:"prefix"`

	// Section is the heading commits of this type are grouped under.
	Section string `koanf:"section"`

	// Hidden drops commits of this type from the changelog entirely.
	Hidden bool `koanf:"hidden"`

	// Minor marks this type as warranting a minor version bump. Types
	// without it contribute a patch bump.
	Minor bool `koanf:"minor"`

	// OmitCredits suppresses author attribution for this type's commits,
	// typically for automated dependency updates.
	OmitCredits bool `koanf:"omit_credits"`
}

// Registry holds the ordered set of changelog types. Declaration order
// determines section order in rendered output, and the first type matching a
// prefix wins.
type Registry struct {
	types    []Type
	byPrefix map[string]Type
}

// NewRegistry builds a registry from an ordered type list. Every type must
// have a prefix, and every visible type must have a section label.
func NewRegistry(types []Type) (*Registry, error) {
	if len(types) == 0 {
		return nil, fmt.Errorf("changelog type registry is empty")
	}

	byPrefix := make(map[string]Type, len(types))
	for i, t := range types {
		if strings.TrimSpace(t.Prefix) == "" {
			return nil, fmt.Errorf("changelog type %d has an empty prefix", i)
		}
		if !t.Hidden && strings.TrimSpace(t.Section) == "" {
			return nil, fmt.Errorf("changelog type %q is visible but has no section label", t.Prefix)
		}
		if _, exists := byPrefix[t.Prefix]; !exists {
			byPrefix[t.Prefix] = t
		}
	}

	return &Registry{types: types, byPrefix: byPrefix}, nil
}

// DefaultRegistry returns the built-in type set used when a project does not
// configure its own.
func DefaultRegistry() *Registry {
	reg, err := NewRegistry(DefaultTypes())
	if err != nil {
		// The built-in table is static and always valid.
		panic(fmt.Sprintf("default changelog types invalid: %v", err))
	}
	return reg
}

// DefaultTypes returns the built-in ordered type table. Callers that let
// users layer their own types on top should copy it first.
func DefaultTypes() []Type {
	return []Type{
		{Prefix: "feat", Section: "Features", Minor: true},
		{Prefix: "fix", Section: "Bug Fixes"},
		{Prefix: "perf", Section: "Performance Improvements"},
		{Prefix: "docs", Section: "Documentation"},
		{Prefix: "deps", Section: "Dependency Upgrades", OmitCredits: true},
		{Prefix: "revert", Section: "Reverts"},
		{Prefix: "chore", Hidden: true},
		{Prefix: "test", Hidden: true},
		{Prefix: "ci", Hidden: true},
		{Prefix: "style", Hidden: true},
		{Prefix: "refactor", Hidden: true},
		{Prefix: "build", Hidden: true},
	}
}

// Lookup returns the type registered for a prefix. The boolean reports
// whether the prefix is known at all, including hidden types.
func (r *Registry) Lookup(prefix string) (Type, bool) {
	t, ok := r.byPrefix[prefix]
	return t, ok
}

// Types returns the registry's types in declaration order.
func (r *Registry) Types() []Type {
	return r.types
}

// Sections returns the visible section labels in declaration order. Labels
// shared by several types appear once, at the position of the first type
// that declares them.
func (r *Registry) Sections() []string {
	seen := make(map[string]bool, len(r.types))
	sections := make([]string, 0, len(r.types))
	for _, t := range r.types {
		if t.Hidden || seen[t.Section] {
			continue
		}
		seen[t.Section] = true
		sections = append(sections, t.Section)
	}
	return sections
}
