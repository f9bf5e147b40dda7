// Package device derives human-readable device names from User-Agent
// strings so sessions can be attributed to the client that opened them.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

const unknownDevice = "Unknown Device"

// DisplayName turns a raw User-Agent header into a short "Browser on OS"
// label. Unparseable or empty input yields a stable fallback rather than
// an error, because a missing header must never block a login.
func DisplayName(rawUA string) string {
	if strings.TrimSpace(rawUA) == "" {
		return unknownDevice
	}

	ua := useragent.New(rawUA)

	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}

	platform := ua.OSInfo().Name
	if platform == "" {
		platform = ua.Platform()
	}
	if platform == "" {
		platform = "Unknown OS"
	}

	return strings.Join(strings.Fields(browser+" on "+platform), " ")
}
