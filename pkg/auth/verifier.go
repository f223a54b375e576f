package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/coreos/go-oidc/v3/oidc"
)

// TokenVerifier turns a raw bearer token into a principal
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*Principal, error)
}

// Verifier validates tokens against an OpenID Connect issuer
type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewVerifier discovers the issuer and creates a verifier. Without a client
// id the audience is not checked.
func NewVerifier(ctx context.Context, issuerURL, clientID string) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}
	return &Verifier{verifier: provider.Verifier(verifierConfig(clientID))}, nil
}

// NewVerifierWithKeySet creates a verifier trusting the given keys
func NewVerifierWithKeySet(issuerURL, clientID string, keySet oidc.KeySet) *Verifier {
	return &Verifier{verifier: oidc.NewVerifier(issuerURL, keySet, verifierConfig(clientID))}
}

func verifierConfig(clientID string) *oidc.Config {
	return &oidc.Config{
		ClientID:          clientID,
		SkipClientIDCheck: clientID == "",
	}
}

type claims struct {
	Name              string          `json:"name"`
	PreferredUsername string          `json:"preferred_username"`
	Email             string          `json:"email"`
	Roles             json.RawMessage `json:"roles"`
}

// Verify checks the signature, issuer, audience and expiry of the token
func (v *Verifier) Verify(ctx context.Context, raw string) (*Principal, error) {
	token, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	var c claims
	if err := token.Claims(&c); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}
	return &Principal{
		Subject:  token.Subject,
		Username: c.PreferredUsername,
		Name:     c.Name,
		Email:    c.Email,
		Roles:    parseRoles(c.Roles),
	}, nil
}

// parseRoles reads either a flat list of roles or the grouped form
// {"team": [...], "group": [...]}, prefixing grouped roles with their group
func parseRoles(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var flat []string
	if err := json.Unmarshal(raw, &flat); err == nil {
		return flat
	}
	var grouped map[string][]string
	if err := json.Unmarshal(raw, &grouped); err != nil {
		return nil
	}
	var roles []string
	for group, names := range grouped {
		for _, name := range names {
			roles = append(roles, group+"-"+name)
		}
	}
	sort.Strings(roles)
	return roles
}
