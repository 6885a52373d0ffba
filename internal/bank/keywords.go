package bank

import (
	"slices"
	"strings"
)

const keywordSeparator = ", "

// KeywordList splits a stored keyword string on commas into trimmed, non-empty entries.
// Unlike scoring, it keeps original casing and short entries so the list can be edited.
func KeywordList(keywords string) []string {
	out := []string{}
	for _, k := range strings.Split(keywords, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// JoinKeywords joins keyword entries into the stored keyword string.
func JoinKeywords(list []string) string {
	return strings.Join(list, keywordSeparator)
}

// AddKeyword appends keyword to the list. Empty input and exact duplicates are ignored.
func AddKeyword(keywords, keyword string) string {
	list := KeywordList(keywords)
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || slices.Contains(list, keyword) {
		return JoinKeywords(list)
	}
	return JoinKeywords(append(list, keyword))
}

// RemoveKeyword drops the entry at index. Out-of-range indexes are ignored.
func RemoveKeyword(keywords string, index int) string {
	list := KeywordList(keywords)
	if index < 0 || index >= len(list) {
		return JoinKeywords(list)
	}
	return JoinKeywords(slices.Delete(list, index, index+1))
}

// MoveKeyword moves the entry at from to position to. Out-of-range indexes are ignored.
func MoveKeyword(keywords string, from, to int) string {
	list := KeywordList(keywords)
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) || from == to {
		return JoinKeywords(list)
	}
	k := list[from]
	list = slices.Delete(list, from, from+1)
	return JoinKeywords(slices.Insert(list, to, k))
}
