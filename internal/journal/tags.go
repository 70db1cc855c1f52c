package journal

import (
	"regexp"
	"strings"
)

var hashtagRe = regexp.MustCompile(`#([\p{L}\p{N}_-]{1,32})`)

const maxInlineTags = 20

// ExtractTags returns the distinct lowercase #hashtags of s in order of first appearance.
func ExtractTags(s string) []string {
	matches := hashtagRe.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := map[string]struct{}{}
	out := make([]string, 0, len(matches))

	for _, m := range matches {
		t := strings.ToLower(m[1])
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)

		if len(out) >= maxInlineTags {
			break
		}
	}

	return out
}

// NormalizeTags trims, lowercases and dedupes labels. A leading '#' is
// dropped so "#Work" and "work" are the same tag. Order is kept.
func NormalizeTags(tags []string) TagList {
	out := make(TagList, 0, len(tags))
	seen := map[string]struct{}{}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "#")))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidColor reports whether c is a #rrggbb color.
func ValidColor(c string) bool { return hexColorRe.MatchString(c) }

// DefaultPalette is used for tags without an explicit color.
var DefaultPalette = []string{
	"#8b5e3c", "#a0522d", "#6b8e23", "#2e8b57", "#4682b4",
	"#6a5acd", "#8b008b", "#c71585", "#b8860b", "#708090",
}

// ColorFor returns the explicit color for tag if one is configured, or a
// palette color picked by hashing the tag name. The same name always maps to
// the same color for a given palette.
func ColorFor(tag string, explicit map[string]string, palette []string) string {
	if c, ok := explicit[tag]; ok && c != "" {
		return c
	}
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	var h uint32
	for _, r := range tag {
		h = h*31 + uint32(r)
	}
	return palette[h%uint32(len(palette))]
}
