package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ImageRules decides which URLs may be stored as crew logo or photo
// references: https, a trusted object storage host, and a known bucket path.
type ImageRules struct {
	Hosts     []string
	Paths     []*regexp.Regexp
	MaxPhotos int
}

// NewImageRules compiles the path patterns.
func NewImageRules(hosts, pathPatterns []string, maxPhotos int) (*ImageRules, error) {
	rules := &ImageRules{MaxPhotos: maxPhotos}
	for _, h := range hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			rules.Hosts = append(rules.Hosts, h)
		}
	}
	for _, p := range pathPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid storage path pattern %q: %w", p, err)
		}
		rules.Paths = append(rules.Paths, re)
	}
	return rules, nil
}

// ValidateImageURL checks one image reference for the given changes key.
func (r *ImageRules) ValidateImageURL(field, raw string) *FieldError {
	if valid, msg := ValidateURL(raw); !valid {
		return fieldErr(field, "%s", msg)
	}

	u, _ := url.Parse(raw)
	if !strings.EqualFold(u.Scheme, "https") {
		return fieldErr(field, "image URL must use https")
	}
	if !r.trustedHost(u.Hostname()) {
		return fieldErr(field, "image must be hosted on the crew image storage")
	}
	if !r.knownPath(u.Path) {
		return fieldErr(field, "image URL does not point to a crew image")
	}
	return nil
}

// ValidatePhotos checks the photo count and each URL.
func (r *ImageRules) ValidatePhotos(field string, urls []string) *FieldError {
	if r.MaxPhotos > 0 && len(urls) > r.MaxPhotos {
		return fieldErr(field, "at most %d photos are allowed", r.MaxPhotos)
	}
	for _, u := range urls {
		if err := r.ValidateImageURL(field, u); err != nil {
			return err
		}
	}
	return nil
}

func (r *ImageRules) trustedHost(host string) bool {
	host = strings.ToLower(host)
	for _, h := range r.Hosts {
		if host == h {
			return true
		}
	}
	return false
}

func (r *ImageRules) knownPath(path string) bool {
	if strings.Contains(path, "..") {
		return false
	}
	for _, re := range r.Paths {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
