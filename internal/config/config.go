package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/Niarfe/scripts-r-us/internal/models"
)

// Keys read from the credentials file
const (
	KeyAPIURL       = "api_url"
	KeyAccountID    = "account_id"
	KeyRefreshToken = "refresh_token"
	KeyTimeout      = "timeout"

	// EnvPrefix namespaces environment overrides, e.g. RIGHTSCRIPT_SYNC_ACCOUNT_ID
	EnvPrefix = "RIGHTSCRIPT_SYNC"
)

// DefaultPath returns the right_api_client login file location
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".right_api_client", "login.yml")
	}
	return filepath.Join(home, ".right_api_client", "login.yml")
}

// SetDefaults registers default values
func SetDefaults() {
	viper.SetDefault(KeyAPIURL, "https://my.rightscale.com")
	viper.SetDefault(KeyTimeout, 60)
}

// Load reads the credentials file at path into viper
func Load(path string) error {
	if path == "" {
		path = DefaultPath()
	}

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()
	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read credentials file %s: %w", path, err)
	}
	return nil
}

// GetAPIURL returns the API endpoint
func GetAPIURL() string {
	return viper.GetString(KeyAPIURL)
}

// GetAccountID returns the RightScale account id
func GetAccountID() string {
	return viper.GetString(KeyAccountID)
}

// GetRefreshToken returns the OAuth refresh token
func GetRefreshToken() string {
	return viper.GetString(KeyRefreshToken)
}

// GetTimeout returns the per-request timeout
func GetTimeout() time.Duration {
	return time.Duration(viper.GetInt(KeyTimeout)) * time.Second
}

// Validate checks that the credentials needed to reach the API are present
func Validate() error {
	if GetAccountID() == "" {
		return fmt.Errorf("%s is not set: %w", KeyAccountID, models.ErrInvalidArguments)
	}
	if GetRefreshToken() == "" {
		return fmt.Errorf("%s is not set: %w", KeyRefreshToken, models.ErrInvalidArguments)
	}
	return nil
}

// Skeleton is the credentials file written by the init command
type Skeleton struct {
	APIURL       string `yaml:"api_url"`
	AccountID    string `yaml:"account_id"`
	RefreshToken string `yaml:"refresh_token"`
	Timeout      int    `yaml:"timeout"`
}
