package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dtroode/userindex/internal/model"
)

// Bootstrap is the initialization input of the index: which principals fill
// the system roles and which roles each principal holds.
type Bootstrap struct {
	KnownPrincipals model.KnownPrincipalMap
	AccessControl   model.AccessControlMap
}

type bootstrapFile struct {
	KnownPrincipals map[string]string   `yaml:"known_principals"`
	AccessControl   map[string][]string `yaml:"access_control"`
}

// LoadBootstrap reads the bootstrap file at path. An empty path yields an
// empty Bootstrap.
func LoadBootstrap(path string) (Bootstrap, error) {
	if path == "" {
		return Bootstrap{KnownPrincipals: model.KnownPrincipalMap{}, AccessControl: model.AccessControlMap{}}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Bootstrap{}, fmt.Errorf("failed to open bootstrap file: %w", err)
	}
	defer f.Close()

	return ParseBootstrap(f)
}

// ParseBootstrap decodes and validates a bootstrap document.
func ParseBootstrap(r io.Reader) (Bootstrap, error) {
	var raw bootstrapFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return Bootstrap{}, fmt.Errorf("failed to decode bootstrap file: %w", err)
	}

	b := Bootstrap{
		KnownPrincipals: make(model.KnownPrincipalMap, len(raw.KnownPrincipals)),
		AccessControl:   make(model.AccessControlMap, len(raw.AccessControl)),
	}

	for tag, value := range raw.KnownPrincipals {
		kind, err := model.ParseKnownPrincipalType(tag)
		if err != nil {
			return Bootstrap{}, fmt.Errorf("known_principals: %w", err)
		}
		principal, err := model.ParsePrincipal(value)
		if err != nil {
			return Bootstrap{}, fmt.Errorf("known_principals.%s: %w", tag, err)
		}
		b.KnownPrincipals[kind] = principal
	}

	for value, names := range raw.AccessControl {
		principal, err := model.ParsePrincipal(value)
		if err != nil {
			return Bootstrap{}, fmt.Errorf("access_control: %w", err)
		}
		roles := make([]model.Role, 0, len(names))
		for _, name := range names {
			role, err := model.ParseRole(name)
			if err != nil {
				return Bootstrap{}, fmt.Errorf("access_control.%s: %w", value, err)
			}
			roles = append(roles, role)
		}
		b.AccessControl[principal] = roles
	}

	return b, nil
}
