// Package sanitizer normalizes free-form input before it is validated and
// persisted. Strategies are composable so each field type gets its own
// pipeline.
package sanitizer

import (
	"net/url"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

// SanitizeDisplayText normalizes listing names, addresses and booking
// durations: trimmed, inner whitespace collapsed, case preserved.
func SanitizeDisplayText(input string) string {
	p := Pipeline{TrimAndNormalize}
	return p.Apply(input)
}

// SanitizeSlice applies a strategy to every element, dropping empties and
// duplicates while keeping the original order.
func SanitizeSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}

	return out
}

// SanitizeURL normalizes an image URL. Anything that does not parse to an
// http(s) URL with a host collapses to the empty string.
func SanitizeURL(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}

	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(strings.TrimSpace(u.Path), "/")

	return u.String()
}
