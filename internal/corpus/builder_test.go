package corpus

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestBuildIndexSkipsIncompleteRows(t *testing.T) {
	dir := t.TempDir()
	jsonlPath := filepath.Join(dir, "mixed.jsonl")
	dbPath := filepath.Join(dir, "corpus.sqlite")

	lines := `{"id":"ok-1","book_title_ar":"المغني","author_ar":"ابن قدامة","source_ref_ar":"المغني، ج1، ص45","text_ar":"نص صحيح"}
{"id":"","book_title_ar":"كتاب","author_ar":"مؤلف","source_ref_ar":"مرجع","text_ar":"بلا معرف"}
{"id":"no-text","book_title_ar":"كتاب","author_ar":"مؤلف","source_ref_ar":"مرجع","text_ar":""}
not json at all

{"id":"ok-2","book_title_ar":"الأم","author_ar":"الشافعي","source_ref_ar":"الأم، ج3، ص25","volume":3,"page":25,"text_ar":"نص آخر"}
`
	writeFile(t, jsonlPath, lines)

	summary, err := BuildIndex(context.Background(), jsonlPath, dbPath)
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}
	if summary.Indexed != 2 {
		t.Errorf("Indexed = %d, want 2", summary.Indexed)
	}
	if summary.Skipped != 3 {
		t.Errorf("Skipped = %d, want 3", summary.Skipped)
	}

	store := NewStore(dbPath)
	defer func() {
		_ = store.Close()
	}()
	n, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}
}

func TestBuildIndexNumericVolumeAndPage(t *testing.T) {
	dir := t.TempDir()
	jsonlPath := filepath.Join(dir, "numeric.jsonl")
	dbPath := filepath.Join(dir, "corpus.sqlite")

	writeFile(t, jsonlPath,
		`{"id":"n-1","book_title_ar":"كتاب","author_ar":"مؤلف","source_ref_ar":"مرجع","volume":7,"page":101,"text_ar":"البيع في المذهب"}`+"\n")

	if _, err := BuildIndex(context.Background(), jsonlPath, dbPath); err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}

	store := NewStore(dbPath)
	defer func() {
		_ = store.Close()
	}()
	results, err := store.Search(context.Background(), "البيع", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Volume != "7" || results[0].Page != "101" {
		t.Errorf("volume/page = %q/%q, want 7/101", results[0].Volume, results[0].Page)
	}
}

func TestBuildIndexReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	jsonlPath := filepath.Join(dir, "one.jsonl")
	dbPath := filepath.Join(dir, "corpus.sqlite")

	writeFile(t, jsonlPath,
		`{"id":"first","book_title_ar":"كتاب","author_ar":"مؤلف","source_ref_ar":"مرجع","text_ar":"النص الأول"}`+"\n")
	if _, err := BuildIndex(context.Background(), jsonlPath, dbPath); err != nil {
		t.Fatalf("first BuildIndex() error = %v", err)
	}

	writeFile(t, jsonlPath,
		`{"id":"second","book_title_ar":"كتاب","author_ar":"مؤلف","source_ref_ar":"مرجع","text_ar":"النص الثاني"}`+"\n")
	if _, err := BuildIndex(context.Background(), jsonlPath, dbPath); err != nil {
		t.Fatalf("second BuildIndex() error = %v", err)
	}

	store := NewStore(dbPath)
	defer func() {
		_ = store.Close()
	}()
	n, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Count() after rebuild = %d, want 1", n)
	}
}

func TestBuildIndexMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := BuildIndex(context.Background(), filepath.Join(dir, "absent.jsonl"), filepath.Join(dir, "out.sqlite"))
	if err == nil {
		t.Fatal("BuildIndex() with missing input should fail")
	}
}

func TestLooseStringUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"string", `"12"`, "12"},
		{"integer", `12`, "12"},
		{"null", `null`, ""},
		{"empty string", `""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s LooseString
			if err := json.Unmarshal([]byte(tt.input), &s); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.input, err)
			}
			if string(s) != tt.expected {
				t.Errorf("Unmarshal(%s) = %q, want %q", tt.input, s, tt.expected)
			}
		})
	}
}
