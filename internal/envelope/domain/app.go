package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/ynpsss/labrador/internal/errors"
)

// App is a configured credential context for one platform application.
//
// An App binds the platform application id (the recipient identity embedded
// in message frames) to the symmetric Keyset and the optional signing
// material. Apps are loaded once at startup and immutable afterwards.
type App struct {
	// Name identifies the app in API routes and configuration.
	Name string

	// PlatformID is the platform-assigned application id. It is the default
	// recipient identity bound into encrypted message frames.
	PlatformID string

	// Keyset holds the symmetric key shared with the platform.
	Keyset *Keyset

	// RSAPrivateKey is optional PEM or DER encoded RSA signing key material.
	RSAPrivateKey []byte

	// RSAPublicKey is optional PEM encoded RSA verification key material.
	RSAPublicKey []byte

	// HMACSecret is the optional secret for HMAC-SHA256 signing.
	HMACSecret string
}

// appSpec is the JSON shape of a single app in configuration.
type appSpec struct {
	Name          string `json:"name"`
	PlatformID    string `json:"platform_id"`
	Key           string `json:"key"` // base64 raw key material
	RSAPrivateKey string `json:"rsa_private_key,omitempty"`
	RSAPublicKey  string `json:"rsa_public_key,omitempty"`
	HMACSecret    string `json:"hmac_secret,omitempty"`
}

// Registry resolves configured apps by name. It is populated once at
// startup and read-only afterwards, so lookups need no locking.
type Registry struct {
	apps map[string]*App
}

// NewRegistryFromJSON parses the APPS configuration value: a JSON array of
// app objects with base64-encoded key material. Fails fast on duplicate
// names, malformed base64, or key lengths invalid for AES.
func NewRegistryFromJSON(raw string) (*Registry, error) {
	if raw == "" {
		return &Registry{apps: map[string]*App{}}, nil
	}

	var specs []appSpec
	if err := json.Unmarshal([]byte(raw), &specs); err != nil {
		return nil, errors.Wrap(err, "failed to parse apps configuration")
	}

	apps := make(map[string]*App, len(specs))
	for _, spec := range specs {
		if spec.Name == "" {
			return nil, errors.New("app name cannot be empty")
		}
		if _, exists := apps[spec.Name]; exists {
			return nil, fmt.Errorf("duplicate app name: %s", spec.Name)
		}

		key, err := base64.StdEncoding.DecodeString(spec.Key)
		if err != nil {
			return nil, fmt.Errorf("app %s: invalid base64 key: %w", spec.Name, err)
		}

		keyset, err := NewKeyset(key)
		if err != nil {
			return nil, fmt.Errorf("app %s: %w", spec.Name, err)
		}

		apps[spec.Name] = &App{
			Name:          spec.Name,
			PlatformID:    spec.PlatformID,
			Keyset:        keyset,
			RSAPrivateKey: []byte(spec.RSAPrivateKey),
			RSAPublicKey:  []byte(spec.RSAPublicKey),
			HMACSecret:    spec.HMACSecret,
		}
	}

	return &Registry{apps: apps}, nil
}

// Get returns the app with the given name, or ErrAppNotFound.
func (r *Registry) Get(name string) (*App, error) {
	app, ok := r.apps[name]
	if !ok {
		return nil, ErrAppNotFound
	}
	return app, nil
}

// Len returns the number of configured apps.
func (r *Registry) Len() int {
	return len(r.apps)
}

// Names returns the configured app names in no particular order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.apps))
	for name := range r.apps {
		names = append(names, name)
	}
	return names
}
