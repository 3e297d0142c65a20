// Package identity reconciles employee name spellings between the punch
// export and the timesheet. The two sources routinely disagree on middle
// names, name order, nicknames, and the occasional typo, so resolution works
// through normalized keys, name-variant indices, and a narrow last-name
// fuzzy fallback.
package identity

import (
	"regexp"
	"strings"

	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/model"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize lowercases a name, collapses non-alphanumeric runs to single
// spaces, and trims. Two names with the same normalized form are treated as
// the same identity within one data source.
func Normalize(name string) string {
	cleaned := nonAlnum.ReplaceAllString(strings.ToLower(name), " ")
	return strings.Join(strings.Fields(cleaned), " ")
}

// Tokens splits a name into normalized tokens, dropping single-character
// tokens (initials and stray punctuation remnants carry no matching signal).
func Tokens(name string) []string {
	var out []string
	for _, tok := range strings.Fields(Normalize(name)) {
		if len(tok) > 1 {
			out = append(out, tok)
		}
	}
	return out
}

// variants returns the lookup spellings generated for a name: the full
// normalized form, the first token, first+second, and first+last.
func variants(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := []string{strings.Join(tokens, " ")}
	if len(tokens) >= 2 {
		out = append(out, tokens[0]+" "+tokens[1])
		out = append(out, tokens[0]+" "+tokens[len(tokens)-1])
	}
	out = append(out, tokens[0])
	return out
}

// Resolver holds the per-run lookup indices built from the punch-side
// identities. Indices are plain values so runs stay independent and tests
// can construct minimal resolvers directly.
type Resolver struct {
	// byVariant maps each generated name variant to the identity keys that
	// produce it.
	byVariant map[string]map[string]bool
	// byFirst maps a first-name token to the identity keys starting with it.
	byFirst map[string]map[string]bool
}

// NewResolver indexes every distinct punch-side identity.
func NewResolver(punches map[model.PunchKey]*model.DailyPunches) *Resolver {
	r := &Resolver{
		byVariant: make(map[string]map[string]bool),
		byFirst:   make(map[string]map[string]bool),
	}
	for _, daily := range punches {
		r.Add(daily.Key, daily.Name)
	}
	return r
}

// Add indexes one identity under all variants of its display name.
func (r *Resolver) Add(key, displayName string) {
	tokens := Tokens(displayName)
	if len(tokens) == 0 {
		return
	}
	addTo(r.byFirst, tokens[0], key)
	for _, v := range variants(tokens) {
		addTo(r.byVariant, v, key)
	}
}

func addTo(index map[string]map[string]bool, variant, key string) {
	set := index[variant]
	if set == nil {
		set = make(map[string]bool)
		index[variant] = set
	}
	set[key] = true
}

// Resolve maps a timesheet block's display name to a punch-side identity
// key. Variants are tried in preference order; the first one matching
// exactly one identity, or containing ownKey among several, answers
// immediately. When every variant is ambiguous or empty, a last-name fuzzy
// pass runs over identities sharing the first-name token, accepting a unique
// candidate whose last token is within edit distance one. Remaining
// ambiguity returns ok=false; the caller is expected to fall back to ownKey,
// a deliberately permissive policy that can over- or under-match.
func (r *Resolver) Resolve(blockName, ownKey string) (string, bool) {
	tokens := Tokens(blockName)
	if len(tokens) == 0 {
		return "", false
	}

	seen := make(map[string]bool)
	for _, variant := range variants(tokens) {
		if seen[variant] {
			continue
		}
		seen[variant] = true
		candidates := r.byVariant[variant]
		if candidates[ownKey] {
			return ownKey, true
		}
		if len(candidates) == 1 {
			for key := range candidates {
				return key, true
			}
		}
	}

	if len(tokens) >= 2 {
		last := tokens[len(tokens)-1]
		var match string
		matches := 0
		for key := range r.byFirst[tokens[0]] {
			keyTokens := strings.Fields(key)
			if len(keyTokens) == 0 {
				continue
			}
			if withinOneEdit(last, keyTokens[len(keyTokens)-1]) {
				match = key
				matches++
			}
		}
		if matches == 1 {
			return match, true
		}
	}
	return "", false
}

// withinOneEdit reports whether a and b differ by at most one substitution,
// insertion, or deletion. A one-sided scan suffices because lengths differ
// by at most one; full Levenshtein would be overkill here.
func withinOneEdit(a, b string) bool {
	if a == b {
		return true
	}
	switch {
	case len(a) == len(b):
		mismatches := 0
		for i := range a {
			if a[i] != b[i] {
				mismatches++
			}
		}
		return mismatches <= 1
	case abs(len(a)-len(b)) > 1:
		return false
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	i, j, edits := 0, 0, 0
	for i < len(a) && j < len(b) {
		if a[i] == b[j] {
			i++
			j++
			continue
		}
		edits++
		if edits > 1 {
			return false
		}
		j++
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
