package report

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// IDCollisionError is returned when no substitution scheme maps a set of
// strings to distinct ids.
type IDCollisionError struct {
	ID      string
	Strings []string
}

func (e *IDCollisionError) Error() string {
	return fmt.Sprintf("could not find a unique id mapping: %q all map to %q", e.Strings, e.ID)
}

// IDPair associates an id with the string it was derived from.
type IDPair struct {
	ID     string
	String string
}

var idSchemes = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`[^A-Za-z0-9.-]`), "_"},
	{regexp.MustCompile(`[^A-Za-z0-9]`), ""},
}

// ComputeIDs reduces values to ids made of URL safe characters only. The
// schemes are tried in order, the first one without collisions wins.
// Duplicate input strings count once. Pairs are sorted by id.
func ComputeIDs(values []string) ([]IDPair, error) {
	unique := make(map[string]bool, len(values))
	for _, s := range values {
		unique[s] = true
	}
	inputs := maps.Keys(unique)
	slices.Sort(inputs)

	var collision *IDCollisionError
	for _, scheme := range idSchemes {
		ids := make(map[string][]string, len(inputs))
		for _, s := range inputs {
			id := scheme.pattern.ReplaceAllString(s, scheme.replacement)
			ids[id] = append(ids[id], s)
		}

		collision = firstCollision(ids)
		if collision != nil {
			continue
		}

		pairs := make([]IDPair, 0, len(ids))
		for id, strs := range ids {
			pairs = append(pairs, IDPair{ID: id, String: strs[0]})
		}
		slices.SortFunc(pairs, func(a, b IDPair) int {
			return strings.Compare(a.ID, b.ID)
		})
		return pairs, nil
	}
	return nil, collision
}

// firstCollision returns the collision with the smallest id, if any.
func firstCollision(ids map[string][]string) *IDCollisionError {
	keys := maps.Keys(ids)
	slices.Sort(keys)
	for _, id := range keys {
		if len(ids[id]) > 1 {
			return &IDCollisionError{ID: id, Strings: ids[id]}
		}
	}
	return nil
}

// IDMap indexes pairs by id.
func IDMap(pairs []IDPair) map[string]string {
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		m[p.ID] = p.String
	}
	return m
}
