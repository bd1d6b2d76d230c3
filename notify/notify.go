// Package notify posts the "new strings added" announcement to a Telegram
// chat. It is the scheduled CI trigger's counterpart in the toolchain and is
// entirely independent of the porting flow — the only shared surface is the
// credential store in the settings package.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/inware-app/portkit/settings"
)

// apiBase is the Telegram Bot API endpoint. Overridden in tests.
var apiBase = "https://api.telegram.org"

// repoURL is advertised in the announcement text.
const repoURL = "https://github.com/inware-app/inware-translations"

// Announcement returns the fixed notification text for the given time.
// Telegram renders it with HTML parse mode.
func Announcement(now time.Time) string {
	return fmt.Sprintf("<b>%s:</b>\nNew strings added!\n\nFind out how to translate Inware at:\n%s",
		now.UTC().Format("2006-01-02 15:04:05"), repoURL)
}

// Credentials resolves the bot token and destination chat id.
// Lookup order: explicit flag values, then TELEGRAM_TOKEN /
// TELEGRAM_DESTINATION environment variables, then the settings store.
func Credentials(flagToken, flagDestination string) (token, destination string, err error) {
	stored := settings.LoadTelegram()

	token = flagToken
	if token == "" {
		token = os.Getenv("TELEGRAM_TOKEN")
	}
	if token == "" {
		token = stored.Token
	}

	destination = flagDestination
	if destination == "" {
		destination = os.Getenv("TELEGRAM_DESTINATION")
	}
	if destination == "" {
		destination = stored.Destination
	}

	if token == "" {
		return "", "", fmt.Errorf("no bot token: pass --token, set TELEGRAM_TOKEN, or run 'portkit auth'")
	}
	if destination == "" {
		return "", "", fmt.Errorf("no destination chat: pass --destination, set TELEGRAM_DESTINATION, or run 'portkit auth'")
	}
	return token, destination, nil
}

// sendResponse is the subset of the Bot API reply we care about.
type sendResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send posts message to the destination chat via the sendMessage method.
// The message is sent silently and without link previews.
func Send(ctx context.Context, token, destination, message string) error {
	form := url.Values{
		"chat_id":                  {destination},
		"parse_mode":               {"HTML"},
		"text":                     {message},
		"disable_web_page_preview": {"true"},
		"disable_notification":     {"true"},
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", apiBase, token)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Telegram returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var sr sendResponse
	if err := json.Unmarshal(respBody, &sr); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	if !sr.OK {
		return fmt.Errorf("Telegram rejected the message: %s", sr.Description)
	}

	return nil
}
