package azure

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"gopkg.in/ini.v1"
)

const (
	DefaultProfile = "default"

	envSubscriptionID = "AZURE_SUBSCRIPTION_ID"
	envTenantID       = "AZURE_TENANT_ID"
	envConfigFile     = "AZURE_CONFIG_FILE"
)

// Config holds everything the ARM clients need for one run. It is built
// once at process start; nothing re-reads the environment afterwards.
type Config struct {
	SubscriptionID string
	TenantID       string
	Credentials    azcore.TokenCredential
}

// LoadConfig resolves the subscription context from the environment first,
// then from the named profile in ~/.azure/config, and attaches an Azure CLI
// credential.
func LoadConfig(ctx context.Context, profile string) (*Config, error) {
	config, err := loadProfile(profile)
	if err != nil {
		return nil, err
	}

	credentials, err := getCredentials(config.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get Azure credentials: %w", err)
	}
	config.Credentials = credentials
	return config, nil
}

func loadProfile(profile string) (*Config, error) {
	if profile == "" {
		profile = DefaultProfile
	}

	config := &Config{
		SubscriptionID: os.Getenv(envSubscriptionID),
		TenantID:       os.Getenv(envTenantID),
	}
	if config.SubscriptionID != "" {
		return config, nil
	}

	path := os.Getenv(envConfigFile)
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("unable to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".azure", "config")
	}

	return loadProfileFile(path, profile)
}

func loadProfileFile(path, profile string) (*Config, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("unable to load Azure config file: %w", err)
	}

	section, err := cfg.GetSection(profile)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found in Azure config: %w", profile, err)
	}

	config := &Config{
		SubscriptionID: section.Key("subscription").String(),
		TenantID:       section.Key("tenant").String(),
	}

	if config.SubscriptionID == "" {
		return nil, fmt.Errorf("subscription ID not found in profile %s", profile)
	}
	return config, nil
}

func getCredentials(tenantID string) (azcore.TokenCredential, error) {
	cred, err := azidentity.NewAzureCLICredential(&azidentity.AzureCLICredentialOptions{
		TenantID: tenantID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure CLI credential: %w", err)
	}

	return cred, nil
}
