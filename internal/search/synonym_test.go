package search

import "testing"

func TestTerms(t *testing.T) {
	tests := []struct {
		name string
		slug string
		want []string
	}{
		{name: "Go", slug: "go", want: []string{"go", "golang"}},
		{name: "PostgreSQL", slug: "postgresql", want: []string{"postgresql", "postgres"}},
		{name: "Node JS", slug: "node-js", want: []string{"node js", "node.js"}},
		{name: "Rust", slug: "rust", want: []string{"rust"}},
		{name: "  ", slug: "", want: []string{}},
	}

	for _, tt := range tests {
		got := Terms(tt.name, tt.slug)
		if len(got) != len(tt.want) {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, got)
			}
		}
	}
}

func TestGetSynonymsReturnsCopy(t *testing.T) {
	got := GetSynonyms("GO")
	if len(got) != 1 {
		t.Fatalf("expected case-insensitive lookup, got %v", got)
	}
	got[0] = "mutated"
	if Synonyms["go"][0] != "golang" {
		t.Fatalf("expected table untouched")
	}
}
