// Package domain defines authentication domain models for API clients.
//
// Clients are static configuration: each carries a name and an Argon2id
// hash of its secret. There is no persistence layer; the client set is
// loaded once at startup from the environment.
package domain

import (
	"encoding/json"
	"fmt"

	"github.com/ynpsss/labrador/internal/errors"
)

// Client represents an API client allowed to call the envelope service.
type Client struct {
	// Name identifies the client in credentials and audit records.
	Name string `json:"name"`

	// SecretHash is the Argon2id hash of the client secret in PHC format.
	SecretHash string `json:"secret_hash"`
}

// ErrClientNotFound indicates no client with the requested name is configured.
var ErrClientNotFound = errors.Wrap(errors.ErrUnauthorized, "client not found")

// ClientSet resolves configured clients by name. It is populated once at
// startup and read-only afterwards, so lookups need no locking.
type ClientSet struct {
	clients map[string]*Client
}

// NewClientSetFromJSON parses the AUTH_CLIENTS configuration value: a JSON
// array of clients with Argon2id secret hashes. Fails fast on duplicate or
// empty names and on missing hashes.
func NewClientSetFromJSON(raw string) (*ClientSet, error) {
	if raw == "" {
		return &ClientSet{clients: map[string]*Client{}}, nil
	}

	var specs []Client
	if err := json.Unmarshal([]byte(raw), &specs); err != nil {
		return nil, errors.Wrap(err, "failed to parse clients configuration")
	}

	clients := make(map[string]*Client, len(specs))
	for i := range specs {
		client := specs[i]
		if client.Name == "" {
			return nil, errors.New("client name cannot be empty")
		}
		if client.SecretHash == "" {
			return nil, fmt.Errorf("client %s: secret hash cannot be empty", client.Name)
		}
		if _, exists := clients[client.Name]; exists {
			return nil, fmt.Errorf("duplicate client name: %s", client.Name)
		}
		clients[client.Name] = &client
	}

	return &ClientSet{clients: clients}, nil
}

// Get returns the client with the given name, or ErrClientNotFound.
func (s *ClientSet) Get(name string) (*Client, error) {
	client, ok := s.clients[name]
	if !ok {
		return nil, ErrClientNotFound
	}
	return client, nil
}

// Len returns the number of configured clients.
func (s *ClientSet) Len() int {
	return len(s.clients)
}
