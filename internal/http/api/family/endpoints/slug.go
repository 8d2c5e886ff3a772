package endpoints

import (
	"regexp"
	"strconv"
	"strings"
)

const maxSlugLen = 50

var (
	slugStrip = regexp.MustCompile(`[^a-z0-9\s_-]`)
	slugDash  = regexp.MustCompile(`[\s_-]+`)
)

// Slugify lowercases name, drops punctuation and joins words with dashes.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugDash.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = strings.TrimRight(s[:maxSlugLen], "-")
	}
	if s == "" {
		s = "family"
	}
	return s
}

// UniqueSlug appends -1, -2, ... until exists reports the slug free.
func UniqueSlug(base string, exists func(string) (bool, error)) (string, error) {
	slug := base
	for i := 1; ; i++ {
		taken, err := exists(slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = base + "-" + strconv.Itoa(i)
	}
}
