// Package settings provides persistent storage for portkit user settings —
// currently the Telegram credentials used by the notify command.
//
// Settings are stored in the XDG data directory:
//
//	$XDG_DATA_HOME/portkit/  (default: ~/.local/share/portkit/)
//
// The notify.json file holds the bot token and destination chat id with 0600
// permissions (owner read/write only).
//
// Lookup order for credentials:
//  1. --token / --destination flags (highest priority)
//  2. TELEGRAM_TOKEN / TELEGRAM_DESTINATION environment variables
//  3. This store
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dataDirName = "portkit"
	fileName    = "notify.json"
)

// Telegram holds the stored notifier credentials.
type Telegram struct {
	// Token is the bot token.
	Token string `json:"token,omitempty"`
	// Destination is the chat id messages are sent to.
	Destination string `json:"destination,omitempty"`
}

// dataDir returns the XDG data directory for portkit.
// Respects $XDG_DATA_HOME (falls back to ~/.local/share).
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func filePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// FilePath returns the notify.json file path for display purposes.
func FilePath() string {
	p, err := filePath()
	if err != nil {
		return ""
	}
	return p
}

// LoadTelegram reads the stored credentials.
// Returns an empty value if the file doesn't exist or is invalid.
func LoadTelegram() Telegram {
	path, err := filePath()
	if err != nil {
		return Telegram{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Telegram{}
	}

	var tg Telegram
	if err := json.Unmarshal(data, &tg); err != nil {
		return Telegram{}
	}
	return tg
}

// SaveTelegram writes the credentials to disk with 0600 permissions.
func SaveTelegram(tg Telegram) error {
	path, err := filePath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(tg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing credentials file: %w", err)
	}

	return nil
}

// RemoveTelegram deletes the stored credentials.
func RemoveTelegram() error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing credentials file: %w", err)
	}
	return nil
}

// MaskKey returns a masked version of a token for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
