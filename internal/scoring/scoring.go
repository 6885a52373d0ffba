// Package scoring rates a spoken-answer transcript against a reference answer and keyword list.
package scoring

import (
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Tier is the qualitative feedback band of an overall score.
type Tier string

// Feedback tiers. Thresholds are fixed.
const (
	TierPositive         Tier = "positive"
	TierEncouraging      Tier = "encouraging"
	TierNeedsImprovement Tier = "needs_improvement"
)

const (
	positiveThreshold    = 70
	encouragingThreshold = 40
	minTokenLength       = 2
)

// Message returns the user-facing feedback line for the tier.
func (t Tier) Message() string {
	switch t {
	case TierPositive:
		return "훌륭합니다!"
	case TierEncouraging:
		return "좋아요, 조금 더 연습해보세요."
	default:
		return "키워드를 더 포함해보세요."
	}
}

// TierFor maps an overall score to its tier.
func TierFor(overall int) Tier {
	switch {
	case overall >= positiveThreshold:
		return TierPositive
	case overall >= encouragingThreshold:
		return TierEncouraging
	default:
		return TierNeedsImprovement
	}
}

// Result is the outcome of scoring one transcript.
type Result struct {
	Similarity      int      `json:"similarity"`
	KeywordScore    int      `json:"keywordScore"`
	KeywordTotal    int      `json:"keywordTotal"`
	MatchedKeywords []string `json:"matchedKeywords"`
	MissedKeywords  []string `json:"missedKeywords"`
	Overall         int      `json:"overall"`
	Tier            Tier     `json:"tier"`
	Feedback        string   `json:"feedback"`
}

// Score rates transcript against the reference answer and the comma-separated keywords.
// The transcript is expected to be non-empty; an empty keyword string leaves the
// keyword score out of the overall blend.
func Score(transcript, answer, keywords string) Result {
	normTranscript := Normalize(transcript)

	keywordList := SplitKeywords(keywords)
	matched, missed := matchKeywords(keywordList, normTranscript)

	res := Result{
		Similarity:      Similarity(transcript, answer),
		KeywordTotal:    len(keywordList),
		MatchedKeywords: matched,
		MissedKeywords:  missed,
	}

	if len(keywordList) > 0 {
		res.KeywordScore = percent(len(matched), len(keywordList))
		res.Overall = int(math.Round(float64(res.Similarity+res.KeywordScore) / 2))
	} else {
		res.Overall = res.Similarity
	}

	res.Tier = TierFor(res.Overall)
	res.Feedback = res.Tier.Message()
	return res
}

// Similarity returns the Jaccard similarity (0-100) of the token sets of a and b.
// Tokens shorter than two characters are ignored; an empty union scores 0.
func Similarity(a, b string) int {
	setA := tokenSet(Normalize(a))
	setB := tokenSet(Normalize(b))

	union := make(map[string]struct{}, len(setA)+len(setB))
	intersection := 0
	for tok := range setA {
		union[tok] = struct{}{}
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	for tok := range setB {
		union[tok] = struct{}{}
	}

	if len(union) == 0 {
		return 0
	}
	return percent(intersection, len(union))
}

// Normalize lowercases text, strips punctuation, and collapses whitespace.
func Normalize(text string) string {
	text = strings.ToLower(norm.NFC.String(text))
	text = strings.Map(func(r rune) rune {
		if strings.ContainsRune(strippedPunctuation, r) {
			return -1
		}
		return r
	}, text)
	return strings.Join(strings.Fields(text), " ")
}

const strippedPunctuation = ".,!?;:'\"()[]{}"

// SplitKeywords splits a keyword string on commas (including the Arabic comma),
// lowercases and trims each keyword, and drops keywords shorter than two characters.
// Duplicates are kept in the order supplied.
//
// Whitespace is not a delimiter: keywords are edited as a comma-separated list, so a
// multi-word keyword such as "이벤트 루프" must match as one phrase.
func SplitKeywords(keywords string) []string {
	parts := strings.FieldsFunc(keywords, func(r rune) bool {
		return r == ',' || r == '،'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		k := strings.ToLower(strings.TrimSpace(norm.NFC.String(p)))
		if utf8.RuneCountInString(k) < minTokenLength {
			continue
		}
		out = append(out, k)
	}
	return out
}

func matchKeywords(keywords []string, normTranscript string) (matched, missed []string) {
	matched = []string{}
	missed = []string{}
	for _, k := range keywords {
		nk := Normalize(k)
		if nk != "" && strings.Contains(normTranscript, nk) {
			matched = append(matched, k)
		} else {
			missed = append(missed, k)
		}
	}
	return matched, missed
}

func tokenSet(normalized string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Split(normalized, " ") {
		if utf8.RuneCountInString(tok) < minTokenLength {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}

func percent(part, whole int) int {
	return int(math.Round(100 * float64(part) / float64(whole)))
}
