package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/model"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Javier Lopez", "javier lopez"},
		{"  LOPEZ,  Javier ", "lopez javier"},
		{"O'Brien, Mary-Jane", "o brien mary jane"},
		{"Javier   Lopez   Jr.", "javier lopez jr"},
		{"", ""},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTokens_DropsInitials(t *testing.T) {
	assert.Equal(t, []string{"javier", "lopez"}, Tokens("Javier M Lopez"))
	assert.Equal(t, []string{"javier"}, Tokens("Javier"))
	assert.Nil(t, Tokens("J M"))
}

func TestResolver_ExactAndVariantMatching(t *testing.T) {
	r := newTestResolver(map[string]string{
		"javier lopez":     "Javier Lopez",
		"maria gonzalez":   "Maria Gonzalez",
		"pete a anderson":  "Pete A Anderson",
	})

	t.Run("full name", func(t *testing.T) {
		key, ok := r.Resolve("Javier Lopez", "javier lopez")
		assert.True(t, ok)
		assert.Equal(t, "javier lopez", key)
	})

	t.Run("middle initial on one side", func(t *testing.T) {
		key, ok := r.Resolve("Pete Anderson", "pete anderson")
		assert.True(t, ok)
		assert.Equal(t, "pete a anderson", key)
	})

	t.Run("first name only spreadsheet entry", func(t *testing.T) {
		key, ok := r.Resolve("Maria", "maria")
		assert.True(t, ok)
		assert.Equal(t, "maria gonzalez", key)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, ok := r.Resolve("Nobody Here", "nobody here")
		assert.False(t, ok)
	})
}

func TestResolver_OwnKeyWinsAmongCandidates(t *testing.T) {
	r := newTestResolver(map[string]string{
		"javier lopez":    "Javier Lopez",
		"javier martinez": "Javier Martinez",
	})

	// The full-name variant's candidate set contains the block's own key,
	// which answers immediately even though "javier" alone is ambiguous.
	key, ok := r.Resolve("Javier Lopez", "javier lopez")
	assert.True(t, ok)
	assert.Equal(t, "javier lopez", key)
}

func TestResolver_FuzzyLastName(t *testing.T) {
	r := newTestResolver(map[string]string{
		"javier lopez":    "Javier Lopez",
		"javier martinez": "Javier Martinez",
	})

	t.Run("single character typo resolves", func(t *testing.T) {
		key, ok := r.Resolve("Javier Lopes", "javier lopes")
		assert.True(t, ok)
		assert.Equal(t, "javier lopez", key)
	})

	t.Run("distant last name does not resolve", func(t *testing.T) {
		r := newTestResolver(map[string]string{
			"maria gonzalez": "Maria Gonzalez",
			"maria lopez":    "Maria Lopez",
		})
		_, ok := r.Resolve("Maria Garcia", "maria garcia")
		assert.False(t, ok)
	})

	t.Run("two fuzzy candidates stay ambiguous", func(t *testing.T) {
		r := newTestResolver(map[string]string{
			"sam reed": "Sam Reed",
			"sam reid": "Sam Reid",
		})
		_, ok := r.Resolve("Sam Red", "sam red")
		assert.False(t, ok)
	})
}

func TestWithinOneEdit(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"lopez", "lopez", true},
		{"lopes", "lopez", true},  // substitution
		{"lope", "lopez", true},   // insertion
		{"lopezz", "lopez", true}, // deletion
		{"garcia", "gonzalez", false},
		{"ab", "ba", false}, // two substitutions
		{"a", "abc", false}, // length gap of two
	}
	for _, tc := range cases {
		if got := withinOneEdit(tc.a, tc.b); got != tc.want {
			t.Errorf("withinOneEdit(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

// newTestResolver indexes the given key -> display name identities on an
// arbitrary date; the resolver only cares about names.
func newTestResolver(identities map[string]string) *Resolver {
	punches := make(map[model.PunchKey]*model.DailyPunches)
	day := model.NewDate(2025, 1, 6)
	for key, name := range identities {
		punches[model.PunchKey{Key: key, Date: day}] = &model.DailyPunches{
			Name: name,
			Key:  key,
			Date: day,
		}
	}
	return NewResolver(punches)
}
