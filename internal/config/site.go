package config

import (
	"maps"
	"net/url"
	"strings"
)

// SiteConfig holds settings for requests to one host.
// This allows auditing pages behind a login and tuning checks per site.
type SiteConfig struct {
	// Cookie is an HTTP cookie sent with requests to this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// UserAgent overrides the global User-Agent for this site.
	UserAgent string `yaml:"userAgent,omitempty"`

	// DisabledChecks lists check names not run on this site. They are
	// added to the checks disabled on the command line.
	DisabledChecks []string `yaml:"disabledChecks,omitempty"`

	// Level overrides the WCAG level ("AA" or "AAA") for this site.
	Level string `yaml:"level,omitempty"`
}

// File represents the structure of the .a11yscan.yaml configuration file.
type File struct {
	// Sites maps host names (optionally with port) to their settings,
	// e.g. "example.com" or "localhost:8080".
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults applies to all sites unless overridden.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a host, merged with the
// defaults. Host names are matched case-insensitively.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults
	result.Headers = maps.Clone(cf.Defaults.Headers)
	result.DisabledChecks = append([]string(nil), cf.Defaults.DisabledChecks...)

	site, ok := cf.Sites[host]
	if !ok {
		for k, v := range cf.Sites {
			if strings.EqualFold(k, host) {
				site, ok = v, true
				break
			}
		}
	}
	if !ok {
		return result
	}

	if site.Cookie != "" {
		result.Cookie = site.Cookie
	}
	if site.UserAgent != "" {
		result.UserAgent = site.UserAgent
	}
	if site.Level != "" {
		result.Level = site.Level
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(site.Headers))
		}
		maps.Copy(result.Headers, site.Headers)
	}
	result.DisabledChecks = append(result.DisabledChecks, site.DisabledChecks...)
	return result
}

// ForTarget returns the site configuration for a target URL. Local files
// and unparsable targets get the defaults.
func (cf *File) ForTarget(target string) SiteConfig {
	if cf == nil {
		return SiteConfig{}
	}
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return cf.GetSiteConfig("")
	}
	if _, ok := cf.Sites[u.Host]; ok {
		return cf.GetSiteConfig(u.Host)
	}
	return cf.GetSiteConfig(u.Hostname())
}
