package matcher

import (
	"strings"
	"testing"

	"formrelay/internal/models"
)

func TestMatch_ScoreTiers(t *testing.T) {
	tests := []struct {
		name       string
		data       *models.Fields
		candidates []string
		wantScore  int
		wantValue  string
		wantKey    string
		wantTerm   string
	}{
		{
			name:       "exact on first candidate",
			data:       models.FieldsFromPairs("Adresse e-mail", "a@b.com"),
			candidates: []string{"Adresse e-mail", "email"},
			wantScore:  1002,
			wantValue:  "a@b.com",
			wantKey:    "Adresse e-mail",
			wantTerm:   "Adresse e-mail",
		},
		{
			name:       "case insensitive exact",
			data:       models.FieldsFromPairs("EMAIL", "a@b.com"),
			candidates: []string{"email"},
			wantScore:  1001,
			wantValue:  "a@b.com",
			wantKey:    "EMAIL",
			wantTerm:   "email",
		},
		{
			name:       "whitespace insensitive",
			data:       models.FieldsFromPairs("Adresse  e-mail", "a@b.com"),
			candidates: []string{"Adresse e-mail"},
			wantScore:  901,
			wantValue:  "a@b.com",
			wantKey:    "Adresse  e-mail",
			wantTerm:   "Adresse e-mail",
		},
		{
			name:       "prefix",
			data:       models.FieldsFromPairs("Email professionnel", "a@b.com"),
			candidates: []string{"email", "mail"},
			wantScore:  502,
			wantValue:  "a@b.com",
			wantKey:    "Email professionnel",
			wantTerm:   "email",
		},
		{
			name:       "suffix",
			data:       models.FieldsFromPairs("Votre email", "a@b.com"),
			candidates: []string{"email"},
			wantScore:  401,
			wantValue:  "a@b.com",
			wantKey:    "Votre email",
			wantTerm:   "email",
		},
		{
			name:       "substring subtracts position",
			data:       models.FieldsFromPairs("Votre email pro", "a@b.com"),
			candidates: []string{"email"},
			wantScore:  195,
			wantValue:  "a@b.com",
			wantKey:    "Votre email pro",
			wantTerm:   "email",
		},
		{
			name:       "decomposed accents compare equal",
			data:       models.FieldsFromPairs("Te\u0301le\u0301phone", "+33 6"),
			candidates: []string{"Téléphone"},
			wantScore:  1001,
			wantValue:  "+33 6",
			wantKey:    "Te\u0301le\u0301phone",
			wantTerm:   "Téléphone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(tt.data, tt.candidates)

			if got.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", got.Score, tt.wantScore)
			}

			if got.Value != tt.wantValue {
				t.Errorf("Value = %q, want %q", got.Value, tt.wantValue)
			}

			if got.MatchedKey != tt.wantKey {
				t.Errorf("MatchedKey = %q, want %q", got.MatchedKey, tt.wantKey)
			}

			if got.SearchTerm != tt.wantTerm {
				t.Errorf("SearchTerm = %q, want %q", got.SearchTerm, tt.wantTerm)
			}
		})
	}
}

func TestMatch_PrecedenceAcrossKeys(t *testing.T) {
	candidates := []string{"Téléphone", "Numéro"}

	// "numéro de téléphone" ends with the first candidate (402) and starts
	// with the second (501); the prefix tier wins.
	only := models.FieldsFromPairs("Numéro de téléphone", "123456")

	got := Match(only, candidates)
	if got.Score != 501 || got.SearchTerm != "Numéro" {
		t.Errorf("Match = %+v, want score 501 on Numéro", got)
	}

	withExact := models.FieldsFromPairs(
		"Numéro de téléphone", "123456",
		"Téléphone", "+237600000000",
	)

	got = Match(withExact, candidates)
	if got.Score != 1002 || got.Value != "+237600000000" {
		t.Errorf("exact label should win with 1002, got %+v", got)
	}
}

func TestMatch_TieKeepsFirstSeen(t *testing.T) {
	data := models.FieldsFromPairs("Email", "first@x.com", "email", "second@x.com")

	got := Match(data, []string{"email"})
	if got.Value != "first@x.com" {
		t.Errorf("Value = %q, want first@x.com", got.Value)
	}
}

func TestMatch_SkipsEmptyValues(t *testing.T) {
	data := models.FieldsFromPairs("Email", "", "Email pro", "x@y.com")

	got := Match(data, []string{"email"})
	if got.Value != "x@y.com" || got.Score != 501 {
		t.Errorf("Match = %+v, want x@y.com with 501", got)
	}
}

func TestMatch_NoMatch(t *testing.T) {
	tests := []struct {
		name       string
		data       *models.Fields
		candidates []string
	}{
		{"unrelated labels", models.FieldsFromPairs("Ville", "Douala"), []string{"email"}},
		{"empty data", models.NewFields(), []string{"email"}},
		{"nil data", nil, []string{"email"}},
		{"no candidates", models.FieldsFromPairs("Email", "a@b.c"), nil},
		{"blank candidate", models.FieldsFromPairs("Email", "a@b.c"), []string{"  "}},
		{"inner spaces are significant", models.FieldsFromPairs("Nom ad resse", "Douala"), []string{"Nomadresse"}},
		{"substring too far", models.FieldsFromPairs(strings.Repeat("x", 300)+"email"+"x", "a@b.c"), []string{"email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(tt.data, tt.candidates)
			if got.Found() || got.Score != 0 || got.Value != "" {
				t.Errorf("expected no match, got %+v", got)
			}
		})
	}
}

func TestMatch_Deterministic(t *testing.T) {
	data := models.FieldsFromPairs(
		"Nom", "A",
		"Nom complet", "A B",
		"Prénom", "B",
	)
	candidates := []string{"Nom complet", "Nom", "Name"}

	first := Match(data, candidates)
	for i := 0; i < 20; i++ {
		if got := Match(data, candidates); got != first {
			t.Fatalf("run %d: %+v != %+v", i, got, first)
		}
	}

	if first.Value != "A B" || first.Score != 1003 {
		t.Errorf("Match = %+v, want A B with 1003", first)
	}
}

func TestMatchAll(t *testing.T) {
	data := models.FieldsFromPairs("Email", "a@b.c", "Ville", "Douala")

	got := MatchAll(data, []string{"email"})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	if got[0].MatchedKey != "Email" || got[0].Score != 1001 {
		t.Errorf("got[0] = %+v", got[0])
	}

	if got[1].MatchedKey != "Ville" || got[1].Score != 0 || got[1].SearchTerm != "" {
		t.Errorf("got[1] = %+v", got[1])
	}
}

func TestScore(t *testing.T) {
	if got := Score("Numéro", "numéro", 3); got != 1003 {
		t.Errorf("Score = %d, want 1003", got)
	}
}
