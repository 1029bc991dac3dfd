// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package settings

import (
	"errors"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"designhub/internal/models"
)

const (
	// MaxBrandNameLength is the maximum brand name length in runes.
	MaxBrandNameLength = 100

	// MaxVersionNameLength is the maximum version name length in runes.
	MaxVersionNameLength = 100

	maxColorNameLength  = 64
	maxColorValueLength = 128
	maxFamilyLength     = 100
)

// brandNamePattern allows letters, digits, spaces and a small set of
// punctuation. Markup characters such as < > " / are rejected.
var brandNamePattern = regexp.MustCompile(`^[\p{L}\p{N} .,\-_&'()!?]+$`)

// ValidateBrandName trims name and checks it against the brand-name rules.
func ValidateBrandName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("brandName", "is required")
	}
	if utf8.RuneCountInString(name) > MaxBrandNameLength {
		return "", invalid("brandName", "must be at most 100 characters")
	}
	if !brandNamePattern.MatchString(name) {
		return "", invalid("brandName", "may only contain letters, digits, spaces and . , - _ & ' ( ) ! ?")
	}
	return name, nil
}

// ValidateLogoURL accepts an empty string, a data:image/ URL or an absolute
// http(s) URL.
func ValidateLogoURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if strings.HasPrefix(raw, "data:") {
		if !strings.HasPrefix(raw, "data:image/") {
			return "", invalid("logoUrl", "data URL must contain an image")
		}
		return raw, nil
	}
	if err := validateHTTPURL(raw); err != nil {
		return "", invalid("logoUrl", err.Error())
	}
	return raw, nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errNotHTTPURL
	}
	return nil
}

var errNotHTTPURL = errors.New("must be an absolute http(s) URL")

// ValidatePalette trims keys and values and rejects empty or oversized
// entries, and names that collide once trimmed. The returned palette is a
// new map.
func ValidatePalette(p models.ColorPalette) (models.ColorPalette, error) {
	if p == nil {
		return nil, invalid("colorPalette", "is required")
	}
	out := make(models.ColorPalette, len(p))
	for name, value := range p {
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" {
			return nil, invalid("colorPalette", "color names must not be empty")
		}
		if _, dup := out[name]; dup {
			return nil, invalid("colorPalette."+name, "duplicate color name")
		}
		if utf8.RuneCountInString(name) > maxColorNameLength {
			return nil, invalid("colorPalette."+name, "name is too long")
		}
		if value == "" {
			return nil, invalid("colorPalette."+name, "value is required")
		}
		if utf8.RuneCountInString(value) > maxColorValueLength {
			return nil, invalid("colorPalette."+name, "value is too long")
		}
		out[name] = value
	}
	return out, nil
}

// ValidateFontWeight checks that w is a CSS numeric weight: a multiple of
// 100 between 100 and 900.
func ValidateFontWeight(w string) error {
	n, err := strconv.Atoi(w)
	if err != nil || n < 100 || n > 900 || n%100 != 0 {
		return invalid("weight", "must be one of 100, 200, ... 900")
	}
	return nil
}

// ValidateTypography checks every role and normalizes weights into a
// sorted, de-duplicated list.
func ValidateTypography(t models.Typography) (models.Typography, error) {
	if t == nil {
		return nil, invalid("typography", "is required")
	}
	out := make(models.Typography, len(t))
	for role, cfg := range t {
		role = strings.TrimSpace(role)
		if role == "" {
			return nil, invalid("typography", "role names must not be empty")
		}
		field := "typography." + role
		if _, dup := out[role]; dup {
			return nil, invalid(field, "duplicate role")
		}

		cfg.Family = strings.TrimSpace(cfg.Family)
		if cfg.Family == "" {
			return nil, invalid(field+".family", "is required")
		}
		if utf8.RuneCountInString(cfg.Family) > maxFamilyLength {
			return nil, invalid(field+".family", "is too long")
		}

		weights := make([]string, 0, len(cfg.Weights))
		for _, w := range cfg.Weights {
			w = strings.TrimSpace(w)
			if err := ValidateFontWeight(w); err != nil {
				return nil, invalid(field+".weights", "contains invalid weight "+strconv.Quote(w))
			}
			weights = append(weights, w)
		}
		slices.Sort(weights)
		cfg.Weights = slices.Compact(weights)

		cfg.GoogleFontURL = strings.TrimSpace(cfg.GoogleFontURL)
		if cfg.GoogleFontURL != "" {
			if err := validateHTTPURL(cfg.GoogleFontURL); err != nil {
				return nil, invalid(field+".googleFontUrl", "must be an absolute http(s) URL")
			}
		}
		out[role] = cfg
	}
	return out, nil
}

// ValidateVersionName trims and checks a version name.
func ValidateVersionName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", "is required")
	}
	if utf8.RuneCountInString(name) > MaxVersionNameLength {
		return "", invalid("name", "must be at most 100 characters")
	}
	return name, nil
}

// ValidateBundle validates and normalizes every field of b.
func ValidateBundle(b models.Bundle) (models.Bundle, error) {
	var (
		out models.Bundle
		err error
	)
	if out.BrandName, err = ValidateBrandName(b.BrandName); err != nil {
		return models.Bundle{}, err
	}
	if out.LogoURL, err = ValidateLogoURL(b.LogoURL); err != nil {
		return models.Bundle{}, err
	}
	if out.ColorPalette, err = ValidatePalette(b.ColorPalette); err != nil {
		return models.Bundle{}, err
	}
	if out.Typography, err = ValidateTypography(b.Typography); err != nil {
		return models.Bundle{}, err
	}
	return out, nil
}
