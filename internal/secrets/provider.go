package secrets

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// SecretSource selects where secrets are resolved from.
type SecretSource string

const (
	// SourceEnvironment resolves secrets from environment variables.
	SourceEnvironment SecretSource = "environment"
	// SourceVault resolves secrets from Azure Key Vault.
	SourceVault SecretSource = "vault"
	// SourceAuto picks the vault in staging and production, and
	// environment variables everywhere else.
	SourceAuto SecretSource = "auto"
)

// Provider resolves named secrets from the configured source. Local
// development runs entirely off environment variables; deployed
// environments pull database credentials, the JWT signing secret, and
// third-party API keys from Key Vault.
type Provider struct {
	source SecretSource
	vault  *KeyVault
	logger *zap.Logger
}

// ProviderConfig configures secret resolution.
type ProviderConfig struct {
	Source       SecretSource
	VaultName    string
	Environment  string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// NewProvider builds a Provider, connecting to Key Vault when the
// resolved source requires it.
func NewProvider(cfg *ProviderConfig, logger *zap.Logger) (*Provider, error) {
	source := cfg.Source
	if source == SourceAuto {
		switch cfg.Environment {
		case "staging", "production":
			source = SourceVault
		default:
			source = SourceEnvironment
		}
		logger.Info("Resolved secret source",
			zap.String("source", string(source)),
			zap.String("environment", cfg.Environment),
		)
	}

	p := &Provider{source: source, logger: logger}

	if source == SourceVault {
		if cfg.VaultName == "" {
			return nil, fmt.Errorf("vault name required for vault secret source")
		}
		vault, err := NewKeyVault(&KeyVaultConfig{
			VaultName:    cfg.VaultName,
			CacheEnabled: cfg.CacheEnabled,
			CacheTTL:     cfg.CacheTTL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("init key vault: %w", err)
		}
		p.vault = vault
	}

	return p, nil
}

// GetSecret resolves a secret by name. For the vault source the name is
// the Key Vault secret name; for the environment source it is the
// environment variable name.
func (p *Provider) GetSecret(ctx context.Context, name string) (string, error) {
	switch p.source {
	case SourceEnvironment:
		value := os.Getenv(name)
		if value == "" {
			return "", fmt.Errorf("environment variable %q not set", name)
		}
		return value, nil
	case SourceVault:
		if p.vault == nil {
			return "", fmt.Errorf("vault client not initialized")
		}
		return p.vault.GetSecret(ctx, name)
	default:
		return "", fmt.Errorf("unknown secret source %q", p.source)
	}
}

// GetSecretOrEnv resolves a secret, letting an explicitly set
// environment variable override the configured source. Deployments use
// this to patch a single secret without touching the vault.
func (p *Provider) GetSecretOrEnv(ctx context.Context, name, envName string) (string, error) {
	if value := os.Getenv(envName); value != "" {
		return value, nil
	}
	return p.GetSecret(ctx, name)
}

// IsVaultEnabled reports whether secrets come from Key Vault.
func (p *Provider) IsVaultEnabled() bool {
	return p.source == SourceVault
}
