package ratelimit

import "strings"

// unlimited is returned for endpoints that are never rate limited.
var unlimited = &EndpointConfig{}

// unlimitedPaths are GET endpoints polled by infrastructure.
var unlimitedPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns nil when nothing matches and the default limit applies.
//
// Patterns are matched segment by segment, and a "*" segment matches any single
// path segment, so "/profiles/*/tailor" matches "/profiles/42/tailor". A pattern
// ending in "/" matches every path below it. Exact patterns win over
// wildcards, and wildcards over prefixes.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == "GET" && unlimitedPaths[path] {
		return unlimited
	}

	var wildcard, prefix *EndpointConfig
	for i := range configs {
		config := &configs[i]
		if config.Method != method {
			continue
		}
		switch {
		case config.Path == path:
			return config
		case wildcard == nil && strings.Contains(config.Path, "*") && segmentsMatch(config.Path, path):
			wildcard = config
		case prefix == nil && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path):
			prefix = config
		}
	}

	if wildcard != nil {
		return wildcard
	}
	return prefix
}

func segmentsMatch(pattern, path string) bool {
	want := strings.Split(strings.Trim(pattern, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] == "*" {
			if got[i] == "" {
				return false
			}
			continue
		}
		if want[i] != got[i] {
			return false
		}
	}
	return true
}
