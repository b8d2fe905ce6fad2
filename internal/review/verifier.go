package review

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Reason names the rule that decided a verdict.
type Reason string

const (
	ReasonOK           Reason = "ok"
	ReasonEmpty        Reason = "empty"
	ReasonProfanity    Reason = "profanity"
	ReasonBoilerplate  Reason = "boilerplate"
	ReasonTooShort     Reason = "too_short"
	ReasonCharacterRun Reason = "character_run"
	ReasonShouting     Reason = "shouting"
	ReasonRepetitive   Reason = "repetitive"
	ReasonGibberish    Reason = "gibberish"
)

// Verdict is the outcome of checking one review text.
type Verdict struct {
	Reason Reason `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

func (v Verdict) Passed() bool {
	return v.Reason == ReasonOK
}

// Options holds the word lists and thresholds of the verifier.
type Options struct {
	ProfaneWords       []string
	BoilerplatePhrases []string

	MinWords  int
	MinLength int

	// MaxCharRun is the longest allowed run of one repeated character.
	MaxCharRun int
	// MaxUpperRatio applies once a text has at least shoutingMinLetters letters.
	MaxUpperRatio      float64
	MinUniqueWordRatio float64
	// MinLetterRatio is measured against all non-space characters.
	MinLetterRatio float64
	// MinVowelRatio is measured over ASCII letters once there are vowelMinLetters of them.
	MinVowelRatio float64
}

const (
	shoutingMinLetters = 10
	vowelMinLetters    = 20
)

func DefaultOptions() Options {
	return Options{
		ProfaneWords: []string{
			"shit", "shitty", "bullshit", "fuck", "motherfucker", "crap", "crappy",
			"bitch", "bastard", "asshole", "piss", "wtf",
		},
		BoilerplatePhrases: []string{"lorem ipsum"},
		MinWords:           5,
		MinLength:          20,
		MaxCharRun:         4,
		MaxUpperRatio:      0.6,
		MinUniqueWordRatio: 0.5,
		MinLetterRatio:     0.6,
		MinVowelRatio:      0.25,
	}
}

// Verifier decides whether review text is fit to publish. It holds no
// mutable state and is safe for concurrent use.
type Verifier struct {
	opts        Options
	profane     [][]string
	boilerplate []string
}

// inflections may follow the last word of a profane term. A word that is
// profane only inside a longer word ("Pissarro") is not matched.
var inflections = []string{"s", "es", "ed", "ing", "er", "ers"}

func NewVerifier(opts Options) *Verifier {
	profane := make([][]string, 0, len(opts.ProfaneWords))
	for _, w := range opts.ProfaneWords {
		if term := tokenize(strings.ToLower(w)); len(term) > 0 {
			profane = append(profane, term)
		}
	}

	boilerplate := make([]string, 0, len(opts.BoilerplatePhrases))
	for _, p := range opts.BoilerplatePhrases {
		p = normalizeSpace(strings.ToLower(p))
		if p != "" {
			boilerplate = append(boilerplate, p)
		}
	}

	return &Verifier{opts: opts, profane: profane, boilerplate: boilerplate}
}

// DoesMeetQualityStandards reports whether text passes every rule.
func (v *Verifier) DoesMeetQualityStandards(text string) bool {
	return v.Check(text).Passed()
}

// Check runs the rules in order and returns the first failure, or ReasonOK.
func (v *Verifier) Check(text string) Verdict {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Verdict{Reason: ReasonEmpty}
	}

	lower := strings.ToLower(trimmed)
	words := tokenize(lower)

	if verdict, bad := v.checkWording(lower, words); bad {
		return verdict
	}

	if len(words) < v.opts.MinWords || utf8.RuneCountInString(trimmed) < v.opts.MinLength {
		return Verdict{Reason: ReasonTooShort}
	}

	if r, n := longestRun(lower); n > v.opts.MaxCharRun {
		return Verdict{Reason: ReasonCharacterRun, Detail: strings.Repeat(string(r), n)}
	}

	s := countChars(trimmed)
	if s.letters >= shoutingMinLetters && ratio(s.upper, s.letters) > v.opts.MaxUpperRatio {
		return Verdict{Reason: ReasonShouting}
	}

	if ratio(distinct(words), len(words)) < v.opts.MinUniqueWordRatio {
		return Verdict{Reason: ReasonRepetitive}
	}

	if ratio(s.letters, s.nonSpace) < v.opts.MinLetterRatio {
		return Verdict{Reason: ReasonGibberish, Detail: "too few letters"}
	}
	if s.asciiLetters >= vowelMinLetters && ratio(s.asciiVowels, s.asciiLetters) < v.opts.MinVowelRatio {
		return Verdict{Reason: ReasonGibberish, Detail: "too few vowels"}
	}

	return Verdict{Reason: ReasonOK}
}

// CheckTitle applies only the profanity and boilerplate rules, which are the
// ones that make sense for a short headline.
func (v *Verifier) CheckTitle(title string) Verdict {
	lower := strings.ToLower(strings.TrimSpace(title))
	if verdict, bad := v.checkWording(lower, tokenize(lower)); bad {
		return verdict
	}
	return Verdict{Reason: ReasonOK}
}

func (v *Verifier) checkWording(lower string, words []string) (Verdict, bool) {
	for _, term := range v.profane {
		if containsTerm(words, term) {
			return Verdict{Reason: ReasonProfanity, Detail: strings.Join(term, " ")}, true
		}
	}

	normalized := normalizeSpace(lower)
	for _, phrase := range v.boilerplate {
		if strings.Contains(normalized, phrase) {
			return Verdict{Reason: ReasonBoilerplate, Detail: phrase}, true
		}
	}
	return Verdict{}, false
}

// containsTerm reports whether term occurs as consecutive words. Every word
// must match exactly except the last, which may carry an inflection.
func containsTerm(words, term []string) bool {
	last := len(term) - 1
	for i := 0; i+last < len(words); i++ {
		match := true
		for j := 0; j < last; j++ {
			if words[i+j] != term[j] {
				match = false
				break
			}
		}
		if match && inflectionOf(words[i+last], term[last]) {
			return true
		}
	}
	return false
}

func inflectionOf(word, stem string) bool {
	suffix, ok := strings.CutPrefix(word, stem)
	if !ok {
		return false
	}
	return suffix == "" || slices.Contains(inflections, suffix)
}

// tokenize splits on anything that is not a letter or digit.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// longestRun returns the most repeated consecutive non-space, non-digit rune.
func longestRun(s string) (rune, int) {
	var (
		best    rune
		bestLen int
		prev    rune
		curLen  int
	)
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsDigit(r) {
			prev, curLen = 0, 0
			continue
		}
		if r == prev {
			curLen++
		} else {
			prev, curLen = r, 1
		}
		if curLen > bestLen {
			best, bestLen = r, curLen
		}
	}
	return best, bestLen
}

type charStats struct {
	nonSpace     int
	letters      int
	upper        int
	asciiLetters int
	asciiVowels  int
}

func countChars(s string) charStats {
	var st charStats
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		st.nonSpace++
		if !unicode.IsLetter(r) {
			continue
		}
		st.letters++
		if unicode.IsUpper(r) {
			st.upper++
		}
		if r < utf8.RuneSelf {
			st.asciiLetters++
			if strings.ContainsRune("aeiouyAEIOUY", r) {
				st.asciiVowels++
			}
		}
	}
	return st
}

func distinct(words []string) int {
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[w] = struct{}{}
	}
	return len(seen)
}

func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}
