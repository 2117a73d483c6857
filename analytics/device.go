package analytics

import (
	"regexp"
	"strings"

	"boozedash/model"
)

const unknown = "unknown"

var versionPatterns = map[string]*regexp.Regexp{
	"Chrome":  regexp.MustCompile(`Chrome/([\d.]+)`),
	"Edge":    regexp.MustCompile(`Edg/([\d.]+)`),
	"Firefox": regexp.MustCompile(`Firefox/([\d.]+)`),
	"Safari":  regexp.MustCompile(`Version/([\d.]+)`),
	"Opera":   regexp.MustCompile(`OPR/([\d.]+)`),
}

// ParseUserAgent classifies a user-agent string into device/browser/OS info.
// Best-effort substring matching; anything unclassifiable comes back as
// "unknown".
func ParseUserAgent(ua string) model.DeviceInfo {
	info := model.DeviceInfo{
		DeviceType:     unknown,
		Browser:        unknown,
		BrowserVersion: unknown,
		OS:             unknown,
		UserAgent:      ua,
	}
	if ua == "" {
		return info
	}

	info.Browser = classifyBrowser(ua)
	if pattern, ok := versionPatterns[info.Browser]; ok {
		if m := pattern.FindStringSubmatch(ua); m != nil {
			info.BrowserVersion = m[1]
		}
	}
	info.OS = classifyOS(ua)
	info.DeviceType = classifyDevice(ua)
	return info
}

func classifyBrowser(ua string) string {
	switch {
	case strings.Contains(ua, "Edg/"):
		return "Edge"
	case strings.Contains(ua, "OPR/"):
		return "Opera"
	case strings.Contains(ua, "Chrome/"):
		return "Chrome"
	case strings.Contains(ua, "Firefox/"):
		return "Firefox"
	case strings.Contains(ua, "Safari/"):
		return "Safari"
	default:
		return unknown
	}
}

func classifyOS(ua string) string {
	switch {
	case strings.Contains(ua, "Windows NT"):
		return "Windows"
	case strings.Contains(ua, "iPhone") || strings.Contains(ua, "iPad"):
		return "iOS"
	case strings.Contains(ua, "Mac OS X"):
		return "macOS"
	case strings.Contains(ua, "Android"):
		return "Android"
	case strings.Contains(ua, "Linux"):
		return "Linux"
	default:
		return unknown
	}
}

func classifyDevice(ua string) string {
	switch {
	case strings.Contains(ua, "iPad") || strings.Contains(ua, "Tablet"):
		return "tablet"
	case strings.Contains(ua, "Mobile") || strings.Contains(ua, "iPhone"):
		return "mobile"
	default:
		return "desktop"
	}
}
