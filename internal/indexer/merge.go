package indexer

import (
	"strings"
)

// MergeRegion replaces the marker-delimited span of existing with region
// (markers included). It is a pure three-way split:
//
//   - both markers present: everything before the start marker and after the
//     end marker is copied through byte for byte;
//   - no markers: the region is appended after a blank line, without
//     rewriting the existing content;
//   - empty input: the region stands alone.
//
// The operation is total and idempotent: merging the same region twice
// yields identical bytes.
func MergeRegion(existing []byte, region string) []byte {
	content := string(existing)

	start := strings.Index(content, StartMarker)
	if start >= 0 {
		afterStart := content[start+len(StartMarker):]
		end := strings.Index(afterStart, EndMarker)
		if end >= 0 {
			prefix := content[:start]
			suffix := afterStart[end+len(EndMarker):]
			return []byte(prefix + region + suffix)
		}
	}

	if len(content) == 0 {
		return []byte(region + "\n")
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return []byte(content + "\n" + region + "\n")
}

// FileTitle derives a human title from a type's path segment: hyphens and
// underscores become spaces and each word is capitalized.
func FileTitle(segment string) string {
	cleaned := strings.NewReplacer("-", " ", "_", " ").Replace(segment)
	words := strings.Fields(cleaned)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
