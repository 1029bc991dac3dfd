// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package settings

import (
	"fmt"
	"sync"

	"designhub/internal/models"
)

// Action is a typed state transition applied by Reduce.
type Action interface {
	// Name identifies the action in logs and metrics.
	Name() string
}

// SetPalette replaces the whole color palette.
type SetPalette struct{ Palette models.ColorPalette }

// SetTypography replaces the whole typography map.
type SetTypography struct{ Typography models.Typography }

// ToggleWeight flips the presence of Weight in the Role's font config.
type ToggleWeight struct{ Role, Weight string }

// SetBranding replaces the brand name and logo URL.
type SetBranding struct{ BrandName, LogoURL string }

// SetLogo replaces only the logo URL.
type SetLogo struct{ URL string }

// Hydrate replaces the whole bundle, e.g. after loading a version or an import.
type Hydrate struct{ Bundle models.Bundle }

// ResetDefaults restores models.DefaultBundle.
type ResetDefaults struct{}

func (SetPalette) Name() string    { return "set_palette" }
func (SetTypography) Name() string { return "set_typography" }
func (ToggleWeight) Name() string  { return "toggle_weight" }
func (SetBranding) Name() string   { return "set_branding" }
func (SetLogo) Name() string       { return "set_logo" }
func (Hydrate) Name() string       { return "hydrate" }
func (ResetDefaults) Name() string { return "reset_defaults" }

// Reduce returns the bundle that results from applying a to b. It never
// modifies b. Values carried by actions are assumed to be validated already.
func Reduce(b models.Bundle, a Action) (models.Bundle, error) {
	next := b.Clone()
	switch a := a.(type) {
	case SetPalette:
		next.ColorPalette = a.Palette.Clone()
	case SetTypography:
		next.Typography = a.Typography.Clone()
	case ToggleWeight:
		cfg, ok := next.Typography[a.Role]
		if !ok {
			return b, invalid("role", fmt.Sprintf("unknown typography role %q", a.Role))
		}
		next.Typography[a.Role] = cfg.ToggleWeight(a.Weight)
	case SetBranding:
		next.BrandName = a.BrandName
		next.LogoURL = a.LogoURL
	case SetLogo:
		next.LogoURL = a.URL
	case Hydrate:
		next = a.Bundle.Clone()
	case ResetDefaults:
		next = models.DefaultBundle()
	default:
		return b, fmt.Errorf("unknown settings action %T", a)
	}
	return next, nil
}

// State holds the current bundle. All transitions are serialized; the
// commit hook runs inside the critical section so the in-memory bundle
// only changes once the new value has been persisted.
type State struct {
	mu     sync.Mutex
	bundle models.Bundle
}

// NewState creates a state container seeded with initial.
func NewState(initial models.Bundle) *State {
	return &State{bundle: initial.Clone()}
}

// Snapshot returns a copy of the current bundle.
func (s *State) Snapshot() models.Bundle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bundle.Clone()
}

// Dispatch reduces a against the current bundle, passes the result to
// commit (if non-nil) and stores it when commit succeeds.
func (s *State) Dispatch(a Action, commit func(models.Bundle) error) (models.Bundle, error) {
	return s.Transact(func(current models.Bundle) (models.Bundle, error) {
		next, err := Reduce(current, a)
		if err != nil {
			return models.Bundle{}, err
		}
		if commit != nil {
			if err := commit(next); err != nil {
				return models.Bundle{}, err
			}
		}
		return next, nil
	})
}

// Transact runs fn with a copy of the current bundle while holding the lock
// and stores the returned bundle. On error the state is unchanged.
func (s *State) Transact(fn func(current models.Bundle) (models.Bundle, error)) (models.Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.bundle.Clone())
	if err != nil {
		return models.Bundle{}, err
	}
	s.bundle = next.Clone()
	return next, nil
}
