// Package collection derives the grouped view of the library: videos sharing a
// name form a collection, the rest are singles. Nothing here is stored state.
package collection

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/vidshelf/vidshelf/video"
	"golang.org/x/exp/slices"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMode orders collections and singles by name.
type SortMode string

const (
	SortNameAsc  SortMode = "name-asc"
	SortNameDesc SortMode = "name-desc"
	SortNone     SortMode = "none"
)

// SortModes lists the modes accepted by ParseSortMode.
func SortModes() []SortMode {
	return []SortMode{SortNameAsc, SortNameDesc, SortNone}
}

// ParseSortMode validates s.
func ParseSortMode(s string) (SortMode, error) {
	mode := SortMode(strings.ToLower(strings.TrimSpace(s)))
	if !lo.Contains(SortModes(), mode) {
		return "", fmt.Errorf("unknown sort mode %q, expected one of %v", s, SortModes())
	}
	return mode, nil
}

// Collection is a group of at least two videos sharing a name.
type Collection struct {
	Name   string        `json:"name"`
	Videos []video.Entry `json:"videos"`
	Count  int           `json:"count"`
}

// Grouping partitions a filtered library into collections and singles.
type Grouping struct {
	Collections []Collection  `json:"collections"`
	Singles     []video.Entry `json:"singles"`
}

// Len returns the number of videos in the grouping.
func (g Grouping) Len() int {
	return len(g.Singles) + lo.SumBy(g.Collections, func(c Collection) int { return c.Count })
}

// Matches reports whether entry matches the search term. The term is trimmed and
// compared case-insensitively against "name url".
func Matches(entry video.Entry, search string) bool {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(entry.Name+" "+entry.URL), term)
}

// Group filters entries by search, groups them by trimmed name in first-seen order
// and sorts both halves by mode. It is a pure function of its arguments.
func Group(entries []video.Entry, search string, mode SortMode) Grouping {
	filtered := lo.Filter(entries, func(e video.Entry, _ int) bool {
		return Matches(e, search)
	})

	var order []string
	groups := make(map[string][]video.Entry)
	for _, entry := range filtered {
		name := strings.TrimSpace(entry.Name)
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], entry)
	}

	grouping := Grouping{
		Collections: []Collection{},
		Singles:     []video.Entry{},
	}
	for _, name := range order {
		members := groups[name]
		if len(members) > 1 {
			grouping.Collections = append(grouping.Collections, Collection{
				Name:   name,
				Videos: members,
				Count:  len(members),
			})
		} else {
			grouping.Singles = append(grouping.Singles, members[0])
		}
	}

	sortByName(grouping.Collections, func(c Collection) string { return c.Name }, mode)
	sortByName(grouping.Singles, func(e video.Entry) string { return strings.TrimSpace(e.Name) }, mode)
	return grouping
}

func sortByName[T any](items []T, name func(T) string, mode SortMode) {
	var sign int
	switch mode {
	case SortNameAsc:
		sign = 1
	case SortNameDesc:
		sign = -1
	default:
		return
	}

	collator := collate.New(language.Und)
	slices.SortStableFunc(items, func(a, b T) int {
		return sign * collator.CompareString(name(a), name(b))
	})
}
