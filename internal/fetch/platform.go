package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known publishing platform.
type Platform string

const (
	// PlatformMedium is medium.com and its custom domains under *.medium.com
	PlatformMedium Platform = "medium"
	// PlatformSubstack is a Substack newsletter
	PlatformSubstack Platform = "substack"
	// PlatformWordPress is a hosted WordPress blog
	PlatformWordPress Platform = "wordpress"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the publishing platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	switch {
	case host == "medium.com" || strings.HasSuffix(host, ".medium.com"):
		return PlatformMedium
	case strings.HasSuffix(host, ".substack.com"):
		return PlatformSubstack
	case strings.HasSuffix(host, ".wordpress.com"):
		return PlatformWordPress
	default:
		return PlatformUnknown
	}
}

// PlatformContentSelectors returns content selectors for a specific platform.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformMedium:
		return []string{"article", "section", "main"}
	case PlatformSubstack:
		return []string{".available-content", ".body.markup", "article", "main"}
	case PlatformWordPress:
		return []string{".entry-content", ".post-content", "article", "main"}
	default:
		return DefaultTextSelectors()
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a specific platform.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		// Sharing and subscription prompts
		"form",
		".social-share",
		".share-buttons",
		".newsletter-signup",
		".subscribe",

		// Comments
		"#comments",
		".comments",

		// Cookie and GDPR
		".cookie-consent",
		".gdpr-notice",
	}

	switch platform {
	case PlatformMedium:
		return append(common, ".pw-responses", "[data-testid='headerClapButton']")
	case PlatformSubstack:
		return append(common, ".subscription-widget-wrap", ".post-footer", ".button-wrapper")
	case PlatformWordPress:
		return append(common, ".sharedaddy", ".jp-relatedposts", ".wp-block-buttons")
	default:
		return common
	}
}
