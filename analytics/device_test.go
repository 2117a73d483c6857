package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUserAgent(t *testing.T) {
	tests := []struct {
		name       string
		ua         string
		browser    string
		os         string
		deviceType string
	}{
		{
			name:       "chrome on windows desktop",
			ua:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			browser:    "Chrome",
			os:         "Windows",
			deviceType: "desktop",
		},
		{
			name:       "safari on iphone",
			ua:         "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			browser:    "Safari",
			os:         "iOS",
			deviceType: "mobile",
		},
		{
			name:       "edge on windows",
			ua:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.2210.91",
			browser:    "Edge",
			os:         "Windows",
			deviceType: "desktop",
		},
		{
			name:       "firefox on android mobile",
			ua:         "Mozilla/5.0 (Android 14; Mobile; rv:121.0) Gecko/121.0 Firefox/121.0",
			browser:    "Firefox",
			os:         "Android",
			deviceType: "mobile",
		},
		{
			name:       "ipad is a tablet",
			ua:         "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			browser:    "Safari",
			os:         "iOS",
			deviceType: "tablet",
		},
		{
			name:       "empty user agent is unknown",
			ua:         "",
			browser:    "unknown",
			os:         "unknown",
			deviceType: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseUserAgent(tt.ua)
			assert.Equal(t, tt.browser, info.Browser)
			assert.Equal(t, tt.os, info.OS)
			assert.Equal(t, tt.deviceType, info.DeviceType)
			assert.Equal(t, tt.ua, info.UserAgent)
		})
	}
}

func TestParseUserAgentVersion(t *testing.T) {
	info := ParseUserAgent("Mozilla/5.0 (Windows NT 10.0) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	assert.Equal(t, "120.0.0.0", info.BrowserVersion)

	info = ParseUserAgent("strange agent string")
	assert.Equal(t, "unknown", info.BrowserVersion)
}
