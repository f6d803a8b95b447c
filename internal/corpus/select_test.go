package corpus

import "testing"

func passage(id, book, author string, score float64) Passage {
	return Passage{
		ID:        id,
		BookTitle: book,
		Author:    author,
		SourceRef: book + "، ج1، ص1",
		Snippet:   "نص " + id,
		Score:     score,
	}
}

func TestSelectDiverse(t *testing.T) {
	candidates := []Passage{
		passage("a-1", "المغني", "ابن قدامة", -3.0),
		passage("a-2", "المغني", "ابن قدامة", -2.5),
		passage("a-3", "المغني", "ابن قدامة", -2.0),
		passage("b-1", "المجموع", "النووي", -1.5),
		passage("c-1", "الأم", "الشافعي", -1.0),
	}

	selected := SelectDiverse(candidates, 10, 2)

	if len(selected) != 4 {
		t.Fatalf("expected 4 selected, got %d", len(selected))
	}

	bySource := make(map[string]int)
	for _, p := range selected {
		bySource[p.SourceKey()]++
	}
	for key, n := range bySource {
		if n > 2 {
			t.Errorf("source %q selected %d times, max is 2", key, n)
		}
	}

	// a-3 is the third passage from its source and must be skipped.
	for _, p := range selected {
		if p.ID == "a-3" {
			t.Error("a-3 should have been excluded by the per-source limit")
		}
	}
}

func TestSelectDiversePreservesOrder(t *testing.T) {
	candidates := []Passage{
		passage("b-1", "المجموع", "النووي", -4.0),
		passage("a-1", "المغني", "ابن قدامة", -3.0),
		passage("c-1", "الأم", "الشافعي", -2.0),
	}

	selected := SelectDiverse(candidates, 3, 2)

	want := []string{"b-1", "a-1", "c-1"}
	if len(selected) != len(want) {
		t.Fatalf("expected %d selected, got %d", len(want), len(selected))
	}
	for i, id := range want {
		if selected[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, selected[i].ID, id)
		}
	}
}

func TestSelectDiverseMaxItems(t *testing.T) {
	var candidates []Passage
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		candidates = append(candidates, passage(id, "كتاب-"+id, "مؤلف-"+id, 0))
	}

	selected := SelectDiverse(candidates, 3, 2)
	if len(selected) != 3 {
		t.Fatalf("expected maxItems to cap selection at 3, got %d", len(selected))
	}
}

func TestSelectDiverseEmptyAndInvalid(t *testing.T) {
	if got := SelectDiverse(nil, 5, 2); len(got) != 0 {
		t.Errorf("expected empty selection from nil candidates, got %d", len(got))
	}
	if got := SelectDiverse([]Passage{passage("a", "b", "c", 0)}, 0, 2); got != nil {
		t.Errorf("expected nil for maxItems 0, got %v", got)
	}
	if got := SelectDiverse([]Passage{passage("a", "b", "c", 0)}, 5, 0); got != nil {
		t.Errorf("expected nil for maxPerSource 0, got %v", got)
	}
}
