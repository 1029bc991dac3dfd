package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"designhub/internal/models"
	"designhub/internal/slug"
)

//go:embed seeddata/catalog.yaml
var catalogYAML []byte

// Development admin credentials created by SeedDevAdmin.
const (
	devAdminEmail    = "admin@designhub.local"
	devAdminPassword = "admin"
)

type catalogSeed struct {
	Categories []categorySeed `yaml:"categories"`
	Tokens     []tokenSeed    `yaml:"tokens"`
}

type categorySeed struct {
	Name        string          `yaml:"name"`
	Slug        string          `yaml:"slug"`
	Description string          `yaml:"description"`
	Components  []componentSeed `yaml:"components"`
}

type componentSeed struct {
	Name        string        `yaml:"name"`
	Slug        string        `yaml:"slug"`
	Description string        `yaml:"description"`
	Status      string        `yaml:"status"`
	Variants    []variantSeed `yaml:"variants"`
	Docs        []docSeed     `yaml:"docs"`
}

type variantSeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Code        string `yaml:"code"`
}

type docSeed struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

type tokenSeed struct {
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Value       string `yaml:"value"`
	Description string `yaml:"description"`
}

// parseCatalog decodes the embedded catalog and fills in derived fields.
func parseCatalog(data []byte) (*catalogSeed, error) {
	var c catalogSeed
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog seed: %w", err)
	}
	for i := range c.Categories {
		cat := &c.Categories[i]
		if cat.Slug == "" {
			cat.Slug = slug.Generate(cat.Name)
		}
		for j := range cat.Components {
			comp := &cat.Components[j]
			if comp.Slug == "" {
				comp.Slug = slug.Generate(comp.Name)
			}
			if comp.Status == "" {
				comp.Status = "stable"
			}
		}
	}
	for _, tok := range c.Tokens {
		if !models.TokenCategory(tok.Category).Valid() {
			return nil, fmt.Errorf("parse catalog seed: token %q has unknown category %q", tok.Name, tok.Category)
		}
	}
	return &c, nil
}

// SeedCatalog populates categories, components, variants, documentation and
// design tokens from the embedded catalog. It is a no-op when categories
// already exist.
func SeedCatalog(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if count > 0 {
		slog.Info("catalog already seeded, skipping")
		return nil
	}

	c, err := parseCatalog(catalogYAML)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	var components int
	for ci, cat := range c.Categories {
		var catID string
		err := tx.QueryRowContext(ctx, `
			INSERT INTO categories (name, slug, description, sort_order)
			VALUES ($1, $2, $3, $4) RETURNING id`,
			cat.Name, cat.Slug, cat.Description, ci,
		).Scan(&catID)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", cat.Slug, err)
		}

		for pi, comp := range cat.Components {
			var compID string
			err := tx.QueryRowContext(ctx, `
				INSERT INTO components (category_id, name, slug, description, status, sort_order)
				VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
				catID, comp.Name, comp.Slug, comp.Description, comp.Status, pi,
			).Scan(&compID)
			if err != nil {
				return fmt.Errorf("seed component %s: %w", comp.Slug, err)
			}
			components++

			for vi, v := range comp.Variants {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO component_variants (component_id, name, description, code_example, sort_order)
					VALUES ($1, $2, $3, $4, $5)`,
					compID, v.Name, v.Description, v.Code, vi,
				); err != nil {
					return fmt.Errorf("seed variant %s/%s: %w", comp.Slug, v.Name, err)
				}
			}
			for di, d := range comp.Docs {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO documentation (component_id, title, content, sort_order)
					VALUES ($1, $2, $3, $4)`,
					compID, d.Title, d.Content, di,
				); err != nil {
					return fmt.Errorf("seed documentation %s/%s: %w", comp.Slug, d.Title, err)
				}
			}
		}
	}

	for ti, tok := range c.Tokens {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO design_tokens (name, category, value, description, sort_order)
			VALUES ($1, $2, $3, $4, $5)`,
			tok.Name, tok.Category, tok.Value, tok.Description, ti,
		); err != nil {
			return fmt.Errorf("seed token %s: %w", tok.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("catalog seeded",
		"categories", len(c.Categories),
		"components", components,
		"tokens", len(c.Tokens),
	)
	return nil
}

// SeedDevAdmin creates a default development admin when no users exist.
// The admin role is granted through GrantRole so the bootstrap shows up in
// the role audit trail like any other grant.
func SeedDevAdmin(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("users already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(devAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, display_name, totp_enabled)
		VALUES ($1, $2, $3, FALSE)
	`, devAdminEmail, string(hash), "Admin"); err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	if _, err := GrantRole(ctx, db, devAdminEmail, models.RoleAdmin, "seed", "development bootstrap"); err != nil {
		return err
	}

	slog.Info("database seeded with default admin user",
		"email", devAdminEmail,
		"password", devAdminPassword,
	)
	return nil
}
