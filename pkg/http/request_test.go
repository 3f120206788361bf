package http

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractClientIP_NoProxyConfig(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.7:4321"
	req.Header.Set("X-Forwarded-For", "198.51.100.9")

	// Forwarding headers from an untrusted peer are ignored
	assert.Equal(t, "203.0.113.7", ExtractClientIP(req, nil))
}

func TestExtractClientIP_TrustedProxy(t *testing.T) {
	config := &IPConfig{TrustedProxies: []string{"10.0.0.0/8"}}

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.1.2.3:4321"
	req.Header.Set("X-Forwarded-For", "198.51.100.9, 10.1.2.3")
	assert.Equal(t, "198.51.100.9", ExtractClientIP(req, config))

	// X-Real-IP is the fallback when X-Forwarded-For is absent
	req = httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.1.2.3:4321"
	req.Header.Set("X-Real-IP", "198.51.100.10")
	assert.Equal(t, "198.51.100.10", ExtractClientIP(req, config))
}

func TestExtractClientIP_UntrustedPeerWithConfig(t *testing.T) {
	config := &IPConfig{TrustedProxies: []string{"10.0.0.0/8"}}

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.7:4321"
	req.Header.Set("X-Forwarded-For", "198.51.100.9")
	assert.Equal(t, "203.0.113.7", ExtractClientIP(req, config))
}

func TestExtractClientIP_GarbageForwardedValue(t *testing.T) {
	config := &IPConfig{TrustedProxies: []string{"10.0.0.0/8"}}

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.1.2.3:4321"
	req.Header.Set("X-Forwarded-For", "not-an-ip")
	assert.Equal(t, "10.1.2.3", ExtractClientIP(req, config))
}
