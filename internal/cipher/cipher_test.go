package cipher

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/robalobadob/unquotable/internal/quotes"
)

var testCatalog = quotes.Catalog{
	{Text: "Talk is cheap. Show me the code.", Author: "Linus Torvalds"},
	{Text: "Whether you think you can, or you think you can't - you're right.", Author: "Henry Ford"},
	{Text: "I have not failed. I've just found 10,000 ways that won't work.", Author: "Thomas Edison"},
	{Text: "The quick brown fox jumps over the lazy dog", Author: "Typist"},
}

func lettersOf(s string) map[string]bool {
	out := map[string]bool{}
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			out[string(r)] = true
		}
	}
	return out
}

func TestGenerateEmptyCatalog(t *testing.T) {
	_, err := Generate(nil, rand.New(rand.NewSource(1)))
	if !errors.Is(err, quotes.ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
}

func TestGenerateProperties(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		rng := rand.New(rand.NewSource(seed))
		eq, err := Generate(testCatalog, rng)
		if err != nil {
			t.Fatalf("seed %d: Generate: %v", seed, err)
		}

		var plain string
		for _, q := range testCatalog {
			if q.Author == eq.Author {
				plain = strings.ToUpper(q.Text)
			}
		}
		if plain == "" {
			t.Fatalf("seed %d: author %q not in catalog", seed, eq.Author)
		}

		// Bijection: no two plaintext letters share a ciphertext letter.
		seen := map[string]string{}
		for k, v := range eq.Map {
			if other, dup := seen[v]; dup {
				t.Fatalf("seed %d: %s and %s both map to %s", seed, k, other, v)
			}
			seen[v] = k
		}

		// Pruning: key set is exactly the letters of the plaintext.
		want := lettersOf(plain)
		if len(eq.Map) != len(want) {
			t.Fatalf("seed %d: map has %d keys, plaintext has %d letters", seed, len(eq.Map), len(want))
		}
		for k := range want {
			if _, ok := eq.Map[k]; !ok {
				t.Fatalf("seed %d: letter %s missing from map", seed, k)
			}
		}

		// Round trip through the inverse mapping.
		inv, err := eq.Map.Invert()
		if err != nil {
			t.Fatalf("seed %d: Invert: %v", seed, err)
		}
		if got := inv.Apply(eq.Text); got != plain {
			t.Fatalf("seed %d: round trip mismatch\n got: %q\nwant: %q", seed, got, plain)
		}

		if len([]rune(eq.Text)) != len([]rune(plain)) {
			t.Fatalf("seed %d: ciphertext length changed", seed)
		}
	}
}

func TestEncryptPassesNonLettersThrough(t *testing.T) {
	q := quotes.Quote{Text: "it's 10,000 - ok?", Author: "x"}
	eq := Encrypt(q, rand.New(rand.NewSource(7)))

	plain := []rune(strings.ToUpper(q.Text))
	cipherRunes := []rune(eq.Text)
	for i, r := range plain {
		isLetter := r >= 'A' && r <= 'Z'
		if !isLetter && cipherRunes[i] != r {
			t.Errorf("position %d: non-letter %q changed to %q", i, r, cipherRunes[i])
		}
		if isLetter && (cipherRunes[i] < 'A' || cipherRunes[i] > 'Z') {
			t.Errorf("position %d: letter %q enciphered to non-letter %q", i, r, cipherRunes[i])
		}
	}
}

func TestPermutationIsFullBijection(t *testing.T) {
	m := Permutation(rand.New(rand.NewSource(42)))
	if len(m) != 26 {
		t.Fatalf("expected 26 entries, got %d", len(m))
	}
	inv, err := m.Invert()
	if err != nil {
		t.Fatalf("Invert: %v", err)
	}
	if len(inv) != 26 {
		t.Fatalf("expected 26 distinct targets, got %d", len(inv))
	}
}

func TestPermutationVariesWithSeed(t *testing.T) {
	distinct := map[string]bool{}
	for seed := int64(0); seed < 20; seed++ {
		m := Permutation(rand.New(rand.NewSource(seed)))
		distinct[m.Apply(alphabet)] = true
	}
	if len(distinct) < 15 {
		t.Fatalf("expected mostly distinct permutations, got %d of 20", len(distinct))
	}
}

func TestPermutationPositionSpread(t *testing.T) {
	// Every letter should land on every target at least once across many
	// shuffles; a biased sort-based shuffle fails this quickly.
	rng := rand.New(rand.NewSource(99))
	hits := map[string]map[string]int{}
	for i := 0; i < 5000; i++ {
		for k, v := range Permutation(rng) {
			if hits[k] == nil {
				hits[k] = map[string]int{}
			}
			hits[k][v]++
		}
	}
	for k, targets := range hits {
		if len(targets) != 26 {
			t.Errorf("letter %s reached only %d targets", k, len(targets))
		}
		for v, n := range targets {
			// Expected ≈ 192 per cell.
			if n < 100 || n > 300 {
				t.Errorf("letter %s → %s occurred %d times", k, v, n)
			}
		}
	}
}

func TestGenerateSelectsEveryQuote(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	counts := map[string]int{}
	for i := 0; i < 2000; i++ {
		eq, err := Generate(testCatalog, rng)
		if err != nil {
			t.Fatal(err)
		}
		counts[eq.Author]++
	}
	for _, q := range testCatalog {
		// Expected 500 each.
		if counts[q.Author] < 350 || counts[q.Author] > 650 {
			t.Errorf("quote by %s selected %d times", q.Author, counts[q.Author])
		}
	}
}

func TestInvertRejectsNonInjective(t *testing.T) {
	_, err := Mapping{"A": "Q", "B": "Q"}.Invert()
	if !errors.Is(err, ErrNotBijective) {
		t.Fatalf("expected ErrNotBijective, got %v", err)
	}
}

func TestPruneAndApply(t *testing.T) {
	full := Mapping{"A": "X", "B": "Y", "C": "Z", "D": "W"}
	pruned := full.Prune("CAB!")
	if len(pruned) != 3 {
		t.Fatalf("expected 3 entries, got %v", pruned)
	}
	if _, ok := pruned["D"]; ok {
		t.Fatal("unused letter D leaked into pruned mapping")
	}
	if got := pruned.Apply("CAB!"); got != "ZXY!" {
		t.Fatalf("Apply = %q, want %q", got, "ZXY!")
	}
}

func TestNewRandIsUsable(t *testing.T) {
	eq, err := Generate(testCatalog, NewRand())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if eq.Text == "" || len(eq.Map) == 0 {
		t.Fatalf("unexpected payload: %+v", eq)
	}
}
