package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the relay.
// Note: the wallet password is prompted at runtime and stored in memory - use GetWalletPasswordBytes()
type Config struct {
	Port             string `envconfig:"PORT" default:"8080"`
	XRPLWebsocketURL string `envconfig:"XRPL_WS_URL" default:"wss://s.altnet.rippletest.net:51233"`
	CheckpointDBPath string `envconfig:"CHECKPOINT_DB_PATH" default:"relay.db"`
	DirectoryPath    string `envconfig:"DIRECTORY_FILE_PATH"`

	GatewayBaseURL    string `envconfig:"SMS_GATEWAY_BASE_URL" default:"https://api.twilio.com"`
	GatewayAccountSID string `envconfig:"SMS_GATEWAY_ACCOUNT_SID"`
	GatewayAuthToken  string `envconfig:"SMS_GATEWAY_AUTH_TOKEN"`
	GatewayFromNumber string `envconfig:"SMS_GATEWAY_FROM_NUMBER"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	cfg = &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetXRPLWebsocketURL returns the rippled websocket endpoint from configuration
func GetXRPLWebsocketURL() string {
	return Get().XRPLWebsocketURL
}

// GetCheckpointDBPath returns path to the relay's SQLite file from configuration
func GetCheckpointDBPath() string {
	return Get().CheckpointDBPath
}

// GetDirectoryPath returns path to the phone directory JSON file, empty if unset
func GetDirectoryPath() string {
	return Get().DirectoryPath
}

var passwordBytes []byte

// PromptForPassword prompts the user for the wallet password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
func PromptForPassword() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, "Enter wallet password: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return errors.New("password cannot be empty")
	}

	passwordBytes = make([]byte, len(raw))
	copy(passwordBytes, raw)
	clear(raw)
	return nil
}

// GetWalletPasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetWalletPasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}
