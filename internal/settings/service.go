// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package settings manages the design-system identity: brand name, logo,
// color palette and typography. A Service applies typed actions to an
// injected State and persists every change through a Backend adapter.
// The remote adapter also keeps named versions; the local adapter keeps a
// single bundle and rejects version operations.
package settings

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"designhub/internal/models"
)

var mutationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "designhub_settings_mutations_total",
		Help: "Settings mutations by action and result.",
	},
	[]string{"action", "result"},
)

func init() {
	prometheus.MustRegister(mutationsTotal)
}

// Branding carries the fields changed by UpdateBranding.
type Branding struct {
	BrandName string
	LogoURL   string
}

// Service is the settings application service.
type Service struct {
	state   *State
	backend Backend
	logos   LogoSink
	now     func() time.Time
}

// NewService wires a service. logos may be nil, in which case logos are
// stored as data URLs.
func NewService(state *State, backend Backend, logos LogoSink) *Service {
	if logos == nil {
		logos = DataURLSink{}
	}
	return &Service{
		state:   state,
		backend: backend,
		logos:   logos,
		now:     time.Now,
	}
}

// Backend returns the configured backend's name.
func (s *Service) Backend() string { return s.backend.Name() }

// Load hydrates the state from the backend. When nothing has been stored
// yet the state is reset to defaults; nothing is written.
func (s *Service) Load(ctx context.Context) (models.Bundle, error) {
	return s.state.Transact(func(models.Bundle) (models.Bundle, error) {
		b, ok, err := s.backend.Load(ctx)
		if err != nil {
			return models.Bundle{}, err
		}
		if !ok {
			return models.DefaultBundle(), nil
		}
		return b, nil
	})
}

// Bundle returns the current settings.
func (s *Service) Bundle() models.Bundle {
	return s.state.Snapshot()
}

// UpdateColorPalette replaces the whole palette. Colors missing from
// palette are removed.
func (s *Service) UpdateColorPalette(ctx context.Context, palette models.ColorPalette) (models.Bundle, error) {
	p, err := ValidatePalette(palette)
	if err != nil {
		return models.Bundle{}, err
	}
	return s.dispatch(ctx, SetPalette{Palette: p})
}

// UpdateTypography replaces the whole typography map.
func (s *Service) UpdateTypography(ctx context.Context, typo models.Typography) (models.Bundle, error) {
	t, err := ValidateTypography(typo)
	if err != nil {
		return models.Bundle{}, err
	}
	return s.dispatch(ctx, SetTypography{Typography: t})
}

// ToggleFontWeight adds weight to role when absent and removes it when present.
func (s *Service) ToggleFontWeight(ctx context.Context, role, weight string) (models.Bundle, error) {
	if err := ValidateFontWeight(weight); err != nil {
		return models.Bundle{}, err
	}
	return s.dispatch(ctx, ToggleWeight{Role: role, Weight: weight})
}

// UpdateBranding sets the brand name and logo URL.
func (s *Service) UpdateBranding(ctx context.Context, br Branding) (models.Bundle, error) {
	name, err := ValidateBrandName(br.BrandName)
	if err != nil {
		return models.Bundle{}, err
	}
	logo, err := ValidateLogoURL(br.LogoURL)
	if err != nil {
		return models.Bundle{}, err
	}
	return s.dispatch(ctx, SetBranding{BrandName: name, LogoURL: logo})
}

// Reset restores the default bundle and persists it.
func (s *Service) Reset(ctx context.Context) (models.Bundle, error) {
	return s.dispatch(ctx, ResetDefaults{})
}

// UploadLogo validates l, stores it through the logo sink and sets the
// resulting URL as the logo. Once the new URL is committed the previous
// logo is removed from the sink.
func (s *Service) UploadLogo(ctx context.Context, l Logo) (models.Bundle, error) {
	ct, err := ValidateLogo(l)
	if err != nil {
		mutationsTotal.WithLabelValues(SetLogo{}.Name(), "rejected").Inc()
		return models.Bundle{}, err
	}
	prev := s.state.Snapshot().LogoURL
	url, err := s.logos.StoreLogo(ctx, l, ct)
	if err != nil {
		mutationsTotal.WithLabelValues(SetLogo{}.Name(), "error").Inc()
		return models.Bundle{}, err
	}
	slog.Info("logo stored", "content_type", ct, "size", len(l.Data))

	b, err := s.dispatch(ctx, SetLogo{URL: url})
	if err != nil {
		// The new object was never committed to the bundle.
		s.removeLogo(ctx, url)
		return models.Bundle{}, err
	}
	if prev != "" && prev != url {
		s.removeLogo(ctx, prev)
	}
	return b, nil
}

// removeLogo deletes a stored logo when the sink supports it. Failures
// leave an orphaned object behind and are only logged.
func (s *Service) removeLogo(ctx context.Context, url string) {
	r, ok := s.logos.(LogoRemover)
	if !ok {
		return
	}
	if err := r.RemoveLogo(ctx, url); err != nil {
		slog.Warn("failed to remove logo", "url", url, "error", err)
	}
}

// Export renders the current settings as a JSON export document.
func (s *Service) Export() ([]byte, error) {
	return EncodeExport(s.state.Snapshot(), s.now())
}

// Import replaces the settings with the contents of an export document.
// The import is all-or-nothing: on any error the current settings are
// unchanged. Parse and validation failures wrap ErrInvalidImport.
func (s *Service) Import(ctx context.Context, data []byte) (models.Bundle, error) {
	b, err := DecodeImport(data)
	if err != nil {
		mutationsTotal.WithLabelValues(Hydrate{}.Name(), "rejected").Inc()
		return models.Bundle{}, err
	}
	return s.dispatch(ctx, Hydrate{Bundle: b})
}

// SaveVersion stores the current settings as a new, inactive version.
func (s *Service) SaveVersion(ctx context.Context, name string, createdBy *uuid.UUID) (*models.DesignSystemVersion, error) {
	vs, err := s.versioner()
	if err != nil {
		return nil, err
	}
	name, err = ValidateVersionName(name)
	if err != nil {
		return nil, err
	}
	v, err := vs.CreateVersion(ctx, name, s.state.Snapshot(), createdBy)
	if err != nil {
		return nil, err
	}
	slog.Info("design system version saved", "version_id", v.ID, "name", v.VersionName)
	return v, nil
}

// LoadVersion activates a version and replaces the current settings with it.
func (s *Service) LoadVersion(ctx context.Context, id uuid.UUID) (*models.DesignSystemVersion, error) {
	vs, err := s.versioner()
	if err != nil {
		return nil, err
	}

	var loaded *models.DesignSystemVersion
	_, err = s.state.Transact(func(current models.Bundle) (models.Bundle, error) {
		v, err := vs.ActivateVersion(ctx, id)
		if err != nil {
			return models.Bundle{}, err
		}
		loaded = v
		return Reduce(current, Hydrate{Bundle: v.Bundle()})
	})
	if err != nil {
		mutationsTotal.WithLabelValues("load_version", "error").Inc()
		return nil, err
	}
	mutationsTotal.WithLabelValues("load_version", "ok").Inc()
	slog.Info("design system version loaded", "version_id", loaded.ID, "name", loaded.VersionName)
	return loaded, nil
}

// ListVersions returns all versions, newest first.
func (s *Service) ListVersions(ctx context.Context) ([]models.DesignSystemVersion, error) {
	vs, err := s.versioner()
	if err != nil {
		return nil, err
	}
	return vs.ListVersions(ctx)
}

// ActiveVersion returns the active version or ErrVersionNotFound.
func (s *Service) ActiveVersion(ctx context.Context) (*models.DesignSystemVersion, error) {
	vs, err := s.versioner()
	if err != nil {
		return nil, err
	}
	return vs.ActiveVersion(ctx)
}

// SetFigmaCredentials stores design-tool OAuth credentials on a version.
// Empty values clear them.
func (s *Service) SetFigmaCredentials(ctx context.Context, id uuid.UUID, clientID, clientSecret string) error {
	vs, err := s.versioner()
	if err != nil {
		return err
	}
	return vs.SetFigmaCredentials(ctx, id, clientID, clientSecret)
}

func (s *Service) versioner() (Versioner, error) {
	vs, ok := s.backend.(Versioner)
	if !ok {
		return nil, ErrVersioningUnsupported
	}
	return vs, nil
}

// dispatch applies a and persists the result in one step.
func (s *Service) dispatch(ctx context.Context, a Action) (models.Bundle, error) {
	b, err := s.state.Dispatch(a, func(next models.Bundle) error {
		return s.backend.Save(ctx, next)
	})
	if err != nil {
		mutationsTotal.WithLabelValues(a.Name(), "error").Inc()
		return models.Bundle{}, fmt.Errorf("%s: %w", a.Name(), err)
	}
	mutationsTotal.WithLabelValues(a.Name(), "ok").Inc()
	slog.Debug("settings updated", "action", a.Name(), "backend", s.backend.Name())
	return b, nil
}
