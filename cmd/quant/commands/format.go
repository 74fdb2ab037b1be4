package commands

import (
	"fmt"
	"net/url"
	"os/exec"
	"strings"
)

// formatPct formats a fraction as a signed percentage string.
func formatPct(f float64) string {
	return fmt.Sprintf("%+.2f%%", f*100)
}

// getGitSHA returns the short SHA of the current commit, or "unknown" if
// git is unavailable.
func getGitSHA() string {
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(output))
}

// maskPassword masks the credential portion of a database URL for
// display. A value that does not parse as a URL with a scheme is masked
// entirely.
func maskPassword(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return "***"
	}
	return u.Redacted()
}
