package service

import "strings"

// NormalizeSiteURL reduces a site URL to a comparable form: scheme, a leading "www.", and trailing
// slashes are removed and the result is lowercased. "https://www.Shop.example.com/" and
// "shop.example.com" normalize to the same value.
func NormalizeSiteURL(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, scheme := range []string{"https://", "http://"} {
		if strings.HasPrefix(s, scheme) {
			s = s[len(scheme):]
			break
		}
	}
	s = strings.TrimPrefix(s, "www.")
	return strings.TrimRight(s, "/")
}

// AbsoluteURL joins base and an asset path. Empty path yields "". A path that is already an
// absolute http(s) URL is returned unchanged.
func AbsoluteURL(base, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
