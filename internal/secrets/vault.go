package secrets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"go.uber.org/zap"
)

const defaultCacheTTL = 5 * time.Minute

// KeyVault reads secrets from an Azure Key Vault instance. Values are
// cached in memory for a short TTL so repeated lookups during startup
// (database credentials, JWT signing key, API keys) hit the vault once.
type KeyVault struct {
	client    *azsecrets.Client
	vaultName string
	logger    *zap.Logger

	mu       sync.Mutex
	cache    map[string]cacheEntry
	cacheTTL time.Duration
	caching  bool
}

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// KeyVaultConfig configures the vault connection and cache behavior.
type KeyVaultConfig struct {
	VaultName    string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// NewKeyVault connects to the named vault using DefaultAzureCredential,
// which resolves environment variables, managed identity, or local
// Azure CLI credentials depending on where the process runs.
func NewKeyVault(cfg *KeyVaultConfig, logger *zap.Logger) (*KeyVault, error) {
	if cfg.VaultName == "" {
		return nil, fmt.Errorf("vault name is required")
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("create azure credential: %w", err)
	}

	vaultURL := fmt.Sprintf("https://%s.vault.azure.net/", cfg.VaultName)
	client, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create key vault client: %w", err)
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	logger.Info("Key Vault client ready",
		zap.String("vault_url", vaultURL),
		zap.Bool("cache_enabled", cfg.CacheEnabled),
	)

	return &KeyVault{
		client:    client,
		vaultName: cfg.VaultName,
		logger:    logger,
		cache:     make(map[string]cacheEntry),
		cacheTTL:  ttl,
		caching:   cfg.CacheEnabled,
	}, nil
}

// GetSecret returns the current value of the named secret.
func (kv *KeyVault) GetSecret(ctx context.Context, name string) (string, error) {
	if value, ok := kv.cached(name); ok {
		return value, nil
	}

	resp, err := kv.client.GetSecret(ctx, name, "", nil)
	if err != nil {
		kv.logger.Error("Key Vault lookup failed",
			zap.String("secret", name),
			zap.Error(err),
		)
		return "", fmt.Errorf("get secret %q: %w", name, err)
	}
	if resp.Value == nil {
		return "", fmt.Errorf("secret %q has no value", name)
	}

	value := *resp.Value
	kv.store(name, value)
	return value, nil
}

func (kv *KeyVault) cached(name string) (string, bool) {
	if !kv.caching {
		return "", false
	}
	kv.mu.Lock()
	defer kv.mu.Unlock()

	entry, ok := kv.cache[name]
	if !ok {
		return "", false
	}
	if time.Now().After(entry.expiresAt) {
		delete(kv.cache, name)
		return "", false
	}
	return entry.value, true
}

func (kv *KeyVault) store(name, value string) {
	if !kv.caching {
		return
	}
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.cache[name] = cacheEntry{value: value, expiresAt: time.Now().Add(kv.cacheTTL)}
}
