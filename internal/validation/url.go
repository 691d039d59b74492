package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ServerURLValidator validates murmur server URLs before the client
// dials them or a share link embeds them.
type ServerURLValidator struct {
	// AllowRemote permits hosts other than loopback addresses
	AllowRemote bool
	// MaxLength is the maximum allowed URL length
	MaxLength int
}

// NewServerURLValidator creates a validator with defaults suited to a
// local-first tool: remote servers are allowed, the URL length is capped.
func NewServerURLValidator() *ServerURLValidator {
	return &ServerURLValidator{
		AllowRemote: true,
		MaxLength:   2048,
	}
}

// NewLoopbackOnlyValidator creates a validator that rejects anything but
// localhost, for setups where recordings must never leave the machine.
func NewLoopbackOnlyValidator() *ServerURLValidator {
	return &ServerURLValidator{
		AllowRemote: false,
		MaxLength:   2048,
	}
}

// ValidateAndNormalize validates a server URL and returns it without a
// trailing slash, ready for path concatenation.
func (v *ServerURLValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("server URL cannot be empty")
	}
	if len(input) > v.MaxLength {
		return "", fmt.Errorf("server URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'`") {
		return "", fmt.Errorf("server URL contains invalid characters")
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("server URL must use http or https")
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("server URL must have a hostname")
	}
	if !v.AllowRemote && !isLoopback(parsed.Host) {
		return "", fmt.Errorf("only loopback server URLs are permitted")
	}

	return strings.TrimRight(parsed.String(), "/"), nil
}

// isLoopback checks if a host (with optional port) refers to this machine.
func isLoopback(host string) bool {
	hostname := host
	if strings.Contains(host, ":") {
		if h, _, err := net.SplitHostPort(host); err == nil {
			hostname = h
		}
	}
	if hostname == "localhost" || strings.HasSuffix(hostname, ".localhost") {
		return true
	}
	if ip := net.ParseIP(hostname); ip != nil {
		return ip.IsLoopback()
	}
	return false
}
