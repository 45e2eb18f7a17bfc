package chatbot

import "testing"

func TestGlossary_Lookup(t *testing.T) {
	g := DefaultGlossary()

	def, ok := g.Lookup("pneumonia")
	if !ok || def == "" {
		t.Fatal("expected a definition for pneumonia")
	}

	if _, ok := g.Lookup("xyzzy"); ok {
		t.Error("expected no definition for xyzzy")
	}
}

func TestGlossary_LookupContains(t *testing.T) {
	g := DefaultGlossary()
	if _, ok := g.Lookup("a pleural effusion"); !ok {
		t.Error("contains match should resolve effusion")
	}
}

func TestGlossary_LookupNormalizes(t *testing.T) {
	g := DefaultGlossary()
	if _, ok := g.Lookup("  PNEUMONIA "); !ok {
		t.Error("lookup should be case-insensitive and trimmed")
	}
}
