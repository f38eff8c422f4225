package activity

import (
	"net/url"
	"regexp"
	"strings"
)

// UnknownApp is used when the sampler reports no owner name.
const UnknownApp = "Unknown"

// urlRegex matches the first http(s) URL embedded in a window title.
var urlRegex = regexp.MustCompile(`https?://\S+`)

// exeSuffixRegex matches a trailing Windows executable suffix.
var exeSuffixRegex = regexp.MustCompile(`\.exe$`)

// NormalizeAppName strips a trailing ".exe" and surrounding whitespace.
// An empty owner becomes UnknownApp.
func NormalizeAppName(owner string) string {
	if owner == "" {
		return UnknownApp
	}
	return strings.TrimSpace(exeSuffixRegex.ReplaceAllString(owner, ""))
}

// ExtractURL returns the first http(s) URL in the title, or "" if none.
func ExtractURL(windowTitle string) string {
	return urlRegex.FindString(windowTitle)
}

// ExtractDomain returns the lowercased host of rawURL with a leading "www."
// stripped. If rawURL has no parseable host it is returned unchanged.
func ExtractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
