// Package credentials resolves provider API keys from the integration_tokens
// table so deployments can rotate keys without a restart. Environment
// variables always win when set.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/infra"
	"github.com/Nidal468/AI-Logo-Maker-sub001/internal/sqlinline"
)

const (
	ProviderQwen   = "qwen"
	ProviderGetimg = "getimg"
	ProviderRunway = "runway"
)

// Known reports whether the provider name has a credentials slot.
func Known(provider string) bool {
	switch provider {
	case ProviderQwen, ProviderGetimg, ProviderRunway:
		return true
	}
	return false
}

type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// Token returns the stored API key for the provider, or "" when none is set.
func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(token), nil
}

// SetToken upserts the API key for the provider.
func (s *Store) SetToken(ctx context.Context, provider, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("credentials: token is required")
	}
	if !Known(provider) {
		return errors.New("credentials: unknown provider " + provider)
	}
	raw, err := json.Marshal(map[string]any{})
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token, raw)
	return err
}

// Resolve prefers the environment value and falls back to the store.
func (s *Store) Resolve(ctx context.Context, provider, envValue string) (string, error) {
	if v := strings.TrimSpace(envValue); v != "" {
		return v, nil
	}
	return s.Token(ctx, provider)
}
