package report

import (
	"regexp"
	"strings"
)

var sentenceEndRe = regexp.MustCompile(`([.!?])\s+`)

// RoughSentenceDiff produces a sentence-level removed/added summary in
// markdown. Rough on purpose: it compares whole sentences as sets, which
// reads well enough for a before/after glance.
func RoughSentenceDiff(before, after string) string {
	a := splitDiffSentences(before)
	b := splitDiffSentences(after)

	aSet := toSet(a)
	bSet := toSet(b)

	var removed, added []string
	for _, s := range a {
		if !bSet[s] {
			removed = append(removed, s)
		}
	}
	for _, s := range b {
		if !aSet[s] {
			added = append(added, s)
		}
	}

	var lines []string
	if len(removed) > 0 {
		lines = append(lines, "**Removed:**")
		for _, s := range removed {
			lines = append(lines, "- "+s)
		}
	}
	if len(added) > 0 {
		if len(removed) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, "**Added:**")
		for _, s := range added {
			lines = append(lines, "+ "+s)
		}
	}
	return strings.Join(lines, "\n")
}

// splitDiffSentences cuts on terminal punctuation followed by
// whitespace, keeping the punctuation with its sentence.
func splitDiffSentences(text string) []string {
	marked := sentenceEndRe.ReplaceAllString(text, "$1\x00")

	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(marked, "\x00") {
		s := strings.TrimSpace(part)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[s] = true
	}
	return set
}
