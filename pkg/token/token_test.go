package token

import (
	"reflect"
	"testing"
)

func TestTokenizeMixedScript(t *testing.T) {
	got := Tokenize("wa kitab fi البيت")
	want := []string{"wa", "kitab", "fi", "البيت"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTokenizeStripsPunctuation(t *testing.T) {
	got := Tokenize("kitab, qalb. aql!")
	want := []string{"kitab", "qalb", "aql"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("Wa kitab fi dar. Qalb min nur! Aql maʿa hum?")
	if len(got) != 3 {
		t.Fatalf("expected 3 sentences, got %d: %v", len(got), got)
	}
	if got[0] != "Wa kitab fi dar." {
		t.Fatalf("unexpected first sentence: %q", got[0])
	}
	if got[1] != "Qalb min nur!" {
		t.Fatalf("unexpected second sentence: %q", got[1])
	}
}

func TestSplitSentencesNoSplitOnLowercase(t *testing.T) {
	// Period followed by a lower-case letter is not a sentence boundary.
	got := SplitSentences("kitab. qalb")
	if len(got) != 1 {
		t.Fatalf("expected 1 sentence, got %d: %v", len(got), got)
	}
}

func TestSplitSentencesArabicInitial(t *testing.T) {
	got := SplitSentences("Kitab kabir. أهلا bikum")
	if len(got) != 2 {
		t.Fatalf("expected 2 sentences, got %d: %v", len(got), got)
	}
}

func TestSplitSentencesDropsEmpty(t *testing.T) {
	if got := SplitSentences("   "); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestClassifyClosedSets(t *testing.T) {
	cases := []struct {
		tok  string
		cat  Category
		gram Grammar
	}{
		{"wa", Particula, Conjuncion},
		{"WA", Particula, Conjuncion},
		{"fi", Particula, Preposicion},
		{"huwa", Particula, Pronombre},
		{"kitab", Nucleo, Sustantivo},
		{"completely_unknown", Nucleo, Sustantivo},
	}
	for _, c := range cases {
		cat, gram := Classify(c.tok)
		if cat != c.cat || gram != c.gram {
			t.Fatalf("classify %q: expected (%v, %v), got (%v, %v)", c.tok, c.cat, c.gram, cat, gram)
		}
	}
}

func TestClassifyStable(t *testing.T) {
	c1, g1 := Classify("min")
	c2, g2 := Classify("min")
	if c1 != c2 || g1 != g2 {
		t.Fatalf("classification not stable: (%v,%v) vs (%v,%v)", c1, g1, c2, g2)
	}
}

func TestClassifyAllPositions(t *testing.T) {
	got := ClassifyAll("wa kitab", 10)
	if len(got) != 2 {
		t.Fatalf("expected 2 classified tokens, got %d", len(got))
	}
	if got[0].Position != 10 || got[1].Position != 11 {
		t.Fatalf("unexpected positions: %d, %d", got[0].Position, got[1].Position)
	}
	if got[0].Category != Particula || got[1].Category != Nucleo {
		t.Fatalf("unexpected categories: %v, %v", got[0].Category, got[1].Category)
	}
}

func TestKeyNormalizes(t *testing.T) {
	if Key("  KiTab ") != "kitab" {
		t.Fatalf("expected normalized key, got %q", Key("  KiTab "))
	}
}
