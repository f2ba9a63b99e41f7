package utils

import (
	"regexp"
	"strings"
)

// UAInfo classifies a raw user-agent string into the coarse buckets the
// CRM expects.
type UAInfo struct {
	Browser string
	OS      string
	Device  string
}

var mobileRegex = regexp.MustCompile(`(?i)Mobi|Android|iPhone|iPad|iPod`)

// ParseUserAgent classifies by substring, newest tokens first. Precision
// beyond these buckets is not needed downstream.
func ParseUserAgent(ua string) UAInfo {
	info := UAInfo{Browser: "Unknown", OS: "Unknown", Device: "Desktop"}
	if ua == "" {
		return UAInfo{}
	}

	switch {
	case strings.Contains(ua, "Firefox"):
		info.Browser = "Firefox"
	case strings.Contains(ua, "Edge"):
		info.Browser = "Edge"
	case strings.Contains(ua, "Chrome"):
		info.Browser = "Chrome"
	case strings.Contains(ua, "Safari"):
		info.Browser = "Safari"
	case strings.Contains(ua, "MSIE"), strings.Contains(ua, "Trident/"):
		info.Browser = "Internet Explorer"
	}

	switch {
	case strings.Contains(ua, "Windows NT 10.0"):
		info.OS = "Windows 10"
	case strings.Contains(ua, "like Mac"):
		info.OS = "iOS"
	case strings.Contains(ua, "Mac OS X"):
		info.OS = "macOS"
	case strings.Contains(ua, "Android"):
		info.OS = "Android"
	}

	if mobileRegex.MatchString(ua) {
		info.Device = "Mobile"
	}

	return info
}
