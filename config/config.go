package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/junhyekh/crocoddyl"
	"github.com/junhyekh/crocoddyl/constraint"
)

var (
	ErrNoContacts       = errors.New("stance has no contacts")
	ErrDuplicateContact = errors.New("duplicate contact name")
	ErrInvalidContact   = errors.New("invalid contact")
)

// maxFileSize bounds the stance files accepted by Load
const maxFileSize = 1 * 1024 * 1024

// StanceConfig describes a set of flat contacts.
// Omitted fields fall back to their defaults in Build.
type StanceConfig struct {
	Workers  *int            `json:"workers,omitempty"`
	Contacts []ContactConfig `json:"contacts"`
}

// ContactConfig describes one contact. Normal defaults to up, Box to an
// unbounded patch (length, width).
type ContactConfig struct {
	Name     string      `json:"name"`
	Position *[3]float64 `json:"position,omitempty"`
	Normal   *[3]float64 `json:"normal,omitempty"`
	Box      *[2]float64 `json:"box,omitempty"`
}

// Load reads a StanceConfig from a JSON file.
func Load(path string) (*StanceConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg StanceConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// Validate checks the parts of the description that the supports would not
// correct on their own.
func (c *StanceConfig) Validate() error {
	if len(c.Contacts) == 0 {
		return ErrNoContacts
	}
	if c.Workers != nil && *c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", *c.Workers)
	}

	seen := make(map[string]bool, len(c.Contacts))
	for i, contact := range c.Contacts {
		if contact.Name == "" {
			return fmt.Errorf("%w: contact %d has no name", ErrInvalidContact, i)
		}
		if seen[contact.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateContact, contact.Name)
		}
		seen[contact.Name] = true
	}
	return nil
}

// Build creates the stance described by c. Non-unit normals and non-positive
// box dimensions are corrected by the supports.
func Build(c *StanceConfig, opts ...constraint.Option) (*crocoddyl.Stance, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	stance := &crocoddyl.Stance{Workers: crocoddyl.DEFAULT_WORKERS}
	if c.Workers != nil {
		stance.Workers = *c.Workers
	}

	for _, contact := range c.Contacts {
		position := mgl64.Vec3{}
		if contact.Position != nil {
			position = mgl64.Vec3(*contact.Position)
		}
		normal := constraint.Up()
		if contact.Normal != nil {
			normal = mgl64.Vec3(*contact.Normal)
		}
		box := mgl64.Vec2{constraint.Unbounded, constraint.Unbounded}
		if contact.Box != nil {
			box = mgl64.Vec2(*contact.Box)
		}

		stance.AddContact(crocoddyl.NewContactFromNormal(contact.Name, position, normal, box, opts...))
	}
	return stance, nil
}

// LoadStance loads and builds a stance from a JSON file.
func LoadStance(path string, opts ...constraint.Option) (*crocoddyl.Stance, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	stance, err := Build(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid stance %s: %w", path, err)
	}
	return stance, nil
}
