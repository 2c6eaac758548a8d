// Package extract mines checkable factual claims from free answer text.
package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/pkoval/claimlens/internal/model"
)

// Rule order matters: temporal tokens run before numeric ones so a
// four-digit year is claimed exactly once, as a date.
var (
	quotedRe = regexp.MustCompile(`"([^"]{3,120})"|'([^']{3,120})'|“([^”]{3,120})”|‘([^’]{3,120})’`)

	yearRe  = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	monthRe = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)\b`)

	numberRe = regexp.MustCompile(`(?i)\b(?:\d{1,3}(?:,\d{3})*(?:\.\d+)?|\d+(?:\.\d+)?)(?:\s?%|[kmb]\b|\b)|(?i)\b(?:one|two|three|four|five|six|seven|eight|nine|ten|hundred|thousand|million|billion)\b`)

	properNounRe = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,4}\b`)

	declarativeRe = regexp.MustCompile(`(?i)\b(is|are|was|were|has|have|shows?|reports?|states?|confirms?)\b`)
)

var monthNames = map[string]bool{
	"january": true, "february": true, "march": true, "april": true,
	"may": true, "june": true, "july": true, "august": true,
	"september": true, "october": true, "november": true, "december": true,
}

// Miner extracts candidate claims from answer text.
// Deterministic for a fixed input aside from generated ids.
type Miner struct {
	cfg model.ExtractConfig
}

// NewMiner creates a claim miner with the given extraction bounds.
func NewMiner(cfg model.ExtractConfig) *Miner {
	return &Miner{cfg: cfg}
}

// NormalizeAnswer collapses CRLF line endings. All claim offsets index into
// this normalized form; callers should keep the normalized answer around.
func NormalizeAnswer(answer string) string {
	return strings.ReplaceAll(answer, "\r\n", "\n")
}

// Extract mines claims from the answer: quoted spans, dates, numbers,
// capitalized entity runs, and declarative sentences as a fallback.
// Claims come back sorted by start offset, de-duplicated, capped at
// MaxClaims. Blank input yields an empty result, never an error.
func (m *Miner) Extract(answer string) []model.Claim {
	text := NormalizeAnswer(answer)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	maxClaims := m.cfg.MaxClaims
	if maxClaims <= 0 {
		maxClaims = 50
	}

	var claims []model.Claim
	seen := make(map[string]bool)

	push := func(start, end int, kind model.ClaimKind) {
		if start < 0 || end > len(text) || start >= end {
			return
		}
		start, end = trimSpan(text, start, end)
		if start >= end {
			return
		}
		claimText := text[start:end]
		key := dedupeKey(claimText, m.cfg.DedupePrefixChars)
		if seen[key] {
			return
		}
		seen[key] = true
		claims = append(claims, model.Claim{
			ID:    newClaimID(),
			Text:  claimText,
			Start: start,
			End:   end,
			Kind:  kind,
		})
	}

	for _, sent := range splitSentences(text) {
		m.mineQuoted(sent, push)
		m.mineDates(sent, push)
		m.mineNumbers(sent, push)
		m.mineEntities(sent, push)
		m.mineSentence(sent, push)

		if len(claims) >= maxClaims {
			break
		}
	}

	sort.SliceStable(claims, func(i, j int) bool {
		return claims[i].Start < claims[j].Start
	})
	if len(claims) > maxClaims {
		claims = claims[:maxClaims]
	}
	return claims
}

type pushFunc func(start, end int, kind model.ClaimKind)

func (m *Miner) mineQuoted(sent sentence, push pushFunc) {
	for _, idx := range quotedRe.FindAllStringSubmatchIndex(sent.text, -1) {
		// Groups 1-4 cover the four quote styles; exactly one is set
		for g := 1; g <= 4; g++ {
			lo, hi := idx[2*g], idx[2*g+1]
			if lo < 0 || hi <= lo {
				continue
			}
			if n := len(strings.TrimSpace(sent.text[lo:hi])); n < m.cfg.MinQuotedLen || n > m.cfg.MaxQuotedLen {
				continue
			}
			push(sent.start+lo, sent.start+hi, model.KindQuoted)
		}
	}
}

func (m *Miner) mineDates(sent sentence, push pushFunc) {
	for _, idx := range yearRe.FindAllStringIndex(sent.text, -1) {
		push(sent.start+idx[0], sent.start+idx[1], model.KindDate)
	}
	for _, idx := range monthRe.FindAllStringIndex(sent.text, -1) {
		push(sent.start+idx[0], sent.start+idx[1], model.KindDate)
	}
}

func (m *Miner) mineNumbers(sent sentence, push pushFunc) {
	for _, idx := range numberRe.FindAllStringIndex(sent.text, -1) {
		txt := strings.TrimSpace(sent.text[idx[0]:idx[1]])
		// Bare years belong to the date rule
		if len(txt) == 4 && yearRe.MatchString(txt) {
			continue
		}
		push(sent.start+idx[0], sent.start+idx[1], model.KindNumber)
	}
}

func (m *Miner) mineEntities(sent sentence, push pushFunc) {
	for _, idx := range properNounRe.FindAllStringIndex(sent.text, -1) {
		txt := sent.text[idx[0]:idx[1]]
		words := strings.Fields(txt)
		if len(words) < 2 {
			continue
		}
		if allMonthNames(words) {
			continue
		}
		push(sent.start+idx[0], sent.start+idx[1], model.KindEntity)
	}
}

func (m *Miner) mineSentence(sent sentence, push pushFunc) {
	n := len(sent.text)
	if n < m.cfg.MinSentenceLen || n > m.cfg.MaxSentenceLen {
		return
	}
	if !declarativeRe.MatchString(sent.text) {
		return
	}
	push(sent.start, sent.end, model.KindSentence)
}

// sentence is a trimmed sentence with offsets into the normalized answer.
type sentence struct {
	text  string
	start int
	end   int
}

// splitSentences cuts on ., ! and ? followed by whitespace or end of input.
func splitSentences(text string) []sentence {
	var out []sentence
	cursor := 0
	i := 0

	emit := func(from, to int) {
		start, end := trimSpan(text, from, to)
		if start < end {
			out = append(out, sentence{text: text[start:end], start: start, end: end})
		}
	}

	for i < len(text) {
		c := text[i]
		if c == '.' || c == '!' || c == '?' {
			j := i + 1
			for j < len(text) && isSpace(text[j]) {
				j++
			}
			emit(cursor, j)
			cursor = j
			i = j
			continue
		}
		i++
	}
	if cursor < len(text) {
		emit(cursor, len(text))
	}
	return out
}

// trimSpan narrows [from,to) to exclude surrounding whitespace.
func trimSpan(text string, from, to int) (int, int) {
	for from < to && isSpace(text[from]) {
		from++
	}
	for to > from && isSpace(text[to-1]) {
		to--
	}
	return from, to
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func allMonthNames(words []string) bool {
	for _, w := range words {
		if !monthNames[strings.ToLower(w)] {
			return false
		}
	}
	return true
}

func dedupeKey(text string, prefix int) string {
	if prefix <= 0 {
		prefix = 200
	}
	key := strings.ToLower(text)
	if len(key) > prefix {
		key = key[:prefix]
	}
	return key
}

func newClaimID() string {
	return "claim_" + strings.Split(uuid.NewString(), "-")[0]
}
