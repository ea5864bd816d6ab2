package site

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrUnknownPlatform is returned for share platforms without a known URL.
var ErrUnknownPlatform = errors.New("site: unknown share platform")

// Platforms lists the supported share targets.
var Platforms = []string{"twitter", "facebook", "linkedin"}

// ShareURL builds the share link for a page on platform.
func ShareURL(platform, pageURL, title string) (string, error) {
	u := url.QueryEscape(pageURL)
	switch strings.ToLower(strings.TrimSpace(platform)) {
	case "twitter":
		return "https://twitter.com/intent/tweet?url=" + u + "&text=" + url.QueryEscape(title), nil
	case "facebook":
		return "https://www.facebook.com/sharer/sharer.php?u=" + u, nil
	case "linkedin":
		return "https://www.linkedin.com/sharing/share-offsite/?url=" + u, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}
}

// ShareLinks builds the link for every supported platform.
func ShareLinks(pageURL, title string) map[string]string {
	out := make(map[string]string, len(Platforms))
	for _, platform := range Platforms {
		link, _ := ShareURL(platform, pageURL, title)
		out[platform] = link
	}
	return out
}
