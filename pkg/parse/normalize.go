package parse

import (
	"net"
	"net/url"
	"strings"
)

// NormalizeURL standardizes a URL for comparison.
// It lowercases the scheme and host, removes default ports (80 for http,
// 443 for https), removes trailing slashes from paths (unless root "/"),
// ensures empty path becomes "/", and removes fragments. Query strings
// are kept: a target URL may legitimately carry one.
// Does not modify the input *url.URL
func NormalizeURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	// Work on a copy
	normalized := *u

	normalized.Scheme = strings.ToLower(normalized.Scheme)
	normalized.Host = strings.ToLower(normalized.Host)

	// Remove default ports
	host, port, err := net.SplitHostPort(normalized.Host)
	if err == nil { // Host included a port
		if (normalized.Scheme == "http" && port == "80") ||
			(normalized.Scheme == "https" && port == "443") {
			normalized.Host = host // Use hostname without default port
		}
	} // If no port or error, Host remains unchanged

	// Handle path normalization
	if normalized.Path == "" {
		normalized.Path = "/" // Ensure empty path becomes "/"
	} else if len(normalized.Path) > 1 && strings.HasSuffix(normalized.Path, "/") {
		normalized.Path = normalized.Path[:len(normalized.Path)-1] // Remove trailing slash
	}

	normalized.Fragment = "" // Remove fragment

	return normalized.String()
}

// CompareKey reduces a URL to the key used for backlink matching: the
// normalized URL with the scheme stripped. Two URLs match when their keys
// are equal, so http://example.com/a/ and https://EXAMPLE.com/a compare
// equal. Idempotent: CompareKey of a key-shaped input yields the same key.
func CompareKey(u *url.URL) string {
	if u == nil {
		return ""
	}
	key := NormalizeURL(u)
	if idx := strings.Index(key, "://"); idx >= 0 {
		key = key[idx+3:]
	} else {
		key = strings.TrimPrefix(key, "//")
	}
	// Only a bare root path ends in "/" after normalization; drop it so
	// keys survive a second pass through CompareKeyString unchanged.
	return strings.TrimSuffix(key, "/")
}

// CompareKeyString parses a raw URL string and returns its CompareKey.
// Returns the key, the parsed URL, and any parse error.
func CompareKeyString(urlStr string) (string, *url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(urlStr))
	if err != nil {
		return "", nil, err
	}
	return CompareKey(parsed), parsed, nil
}

// ParseAndNormalize parses a URL string using the stricter
// url.ParseRequestURI (requiring a scheme) and then normalizes it using
// NormalizeURL. Returns the normalized string, the parsed URL object, and
// any parse error
func ParseAndNormalize(urlStr string) (string, *url.URL, error) {
	parsed, err := url.ParseRequestURI(urlStr) // Stricter parsing
	if err != nil {
		return "", nil, err
	}
	normalizedStr := NormalizeURL(parsed)
	return normalizedStr, parsed, nil
}
