package taxonomy

import (
	"os"
	"path/filepath"
	"testing"
)

func mustDefault(t *testing.T) *Classifier {
	t.Helper()

	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	return c
}

func TestClassify_DefaultTable(t *testing.T) {
	c := mustDefault(t)

	tests := []struct {
		name        string
		title       string
		description string
		want        string
		wantOK      bool
	}{
		{"bedsheet", "Cotton Bedsheet King Size", "", "Bedding", true},
		{"exclusion vetoes bedding", "Cushion Cover Bed Set", "", "Cushions", true},
		{"rug", "Hand Tufted Wool Rug", "Soft underfoot.", "Rugs", true},
		{"table runner is not a rug", "Block Print Table Runner", "", "Table Linen", true},
		{"shower curtain is bath", "Waterproof Shower Curtain", "", "Bath", true},
		{"throw pillow is a cushion", "Velvet Throw Pillow", "", "Cushions", true},
		{"description only", "Indigo Block Print", "A soft bedsheet for everyday use.", "Bedding", true},
		{"no signal", "Miscellaneous Item 42", "", "", false},
		{"empty", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Classify(tt.title, tt.description)
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("Classify(%q, %q) = %q,%v want %q,%v", tt.title, tt.description, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestClassify_ExcludedCategoryNeverWins(t *testing.T) {
	c := New([]Category{
		{Name: "Bedding", Primary: []string{"bed set", "bed"}, Exclude: []string{"cushion cover"}},
		{Name: "Cushions", Secondary: []string{"cover"}},
	})

	got, ok := c.Classify("Cushion Cover Bed Set", "a bed set with matching bed linen")
	if !ok || got != "Cushions" {
		t.Fatalf("expected Cushions, got %q ok=%v", got, ok)
	}

	for _, s := range c.Scores("Cushion Cover Bed Set", "") {
		if s.Category == "Bedding" && (!s.Excluded || s.Score != 0) {
			t.Fatalf("expected Bedding excluded with no score, got %+v", s)
		}
	}
}

func TestClassify_ExclusionChecksTitleOnly(t *testing.T) {
	c := New([]Category{
		{Name: "Bedding", Primary: []string{"bedsheet"}, Exclude: []string{"cushion cover"}},
	})

	got, ok := c.Classify("Percale Bedsheet", "pairs well with our cushion cover range")
	if !ok || got != "Bedding" {
		t.Fatalf("description must not trigger exclusion, got %q ok=%v", got, ok)
	}
}

func TestScores_Weights(t *testing.T) {
	c := New([]Category{
		{Name: "Rugs", Primary: []string{"rug"}, Secondary: []string{"floor"}},
	})

	tests := []struct {
		name        string
		title       string
		description string
		want        int
	}{
		{"primary in head of title", "Wool Rug", "", 10 + 8 + 5},
		{"primary in title after fifth word", "Handmade Indigo Jaipur Block Printed Cotton Rug", "", 10 + 8},
		{"primary in description only", "Jaipur Dhurrie", "a rug for any room", 10},
		{"secondary only", "Floor Covering", "", 3},
		{"everything", "Rug", "for the floor", 10 + 8 + 5 + 3},
		{"nothing", "Lamp", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := c.Scores(tt.title, tt.description)
			if len(scores) != 1 || scores[0].Score != tt.want {
				t.Fatalf("expected score %d, got %+v", tt.want, scores)
			}
		})
	}
}

func TestClassify_TiesGoToDeclarationOrder(t *testing.T) {
	c := New([]Category{
		{Name: "First", Primary: []string{"runner"}},
		{Name: "Second", Primary: []string{"runner"}},
	})

	got, ok := c.Classify("Runner", "")
	if !ok || got != "First" {
		t.Fatalf("expected First, got %q", got)
	}

	c = New([]Category{
		{Name: "Second", Primary: []string{"runner"}},
		{Name: "First", Primary: []string{"runner"}},
	})

	got, _ = c.Classify("Runner", "")
	if got != "Second" {
		t.Fatalf("expected Second, got %q", got)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := mustDefault(t)

	first, _ := c.Classify("Jute Dhurrie Floor Runner", "Handwoven, anti-skid.")
	for i := 0; i < 50; i++ {
		got, _ := c.Classify("Jute Dhurrie Floor Runner", "Handwoven, anti-skid.")
		if got != first {
			t.Fatalf("call %d returned %q, first call returned %q", i, got, first)
		}
	}
}

func TestClassify_CaseAndPunctuationInsensitive(t *testing.T) {
	c := New([]Category{{Name: "Cushions", Primary: []string{"Cushion-Cover"}}})

	got, ok := c.Classify("CUSHION   COVER!!", "")
	if !ok || got != "Cushions" {
		t.Fatalf("expected Cushions, got %q ok=%v", got, ok)
	}
}

func TestNew_DropsEmptyKeywordsAndNames(t *testing.T) {
	c := New([]Category{
		{Name: "Blank", Primary: []string{"", "  ", "!!"}},
		{Name: "   "},
	})

	if got := c.Categories(); len(got) != 1 || got[0] != "Blank" {
		t.Fatalf("unexpected categories: %v", got)
	}
	if _, ok := c.Classify("anything at all", "really"); ok {
		t.Fatalf("empty keywords must not match")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	if err := os.WriteFile(good, []byte("categories:\n  - name: Lamps\n    primary: [lamp]\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := LoadFile(good)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got, ok := c.Classify("Brass Table Lamp", ""); !ok || got != "Lamps" {
		t.Fatalf("expected Lamps, got %q", got)
	}

	dup := filepath.Join(dir, "dup.yaml")
	if err := os.WriteFile(dup, []byte("categories:\n  - name: A\n  - name: A\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(dup); err == nil {
		t.Fatalf("expected duplicate category error")
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadFile_EmptyPathUsesDefault(t *testing.T) {
	c, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := c.Categories(); len(got) == 0 || got[0] != "Bedding" {
		t.Fatalf("unexpected default categories: %v", got)
	}
}

func TestScores_PhrasesDoNotSpanTitleAndDescription(t *testing.T) {
	c := New([]Category{
		{Name: "Bedding", Primary: []string{"bed set"}, Secondary: []string{"king bed"}},
	})

	for _, s := range c.Scores("Carved Wooden Bed", "Set of two side tables. King sized.") {
		if s.Score != 0 {
			t.Fatalf("phrase matched across the title/description join: %+v", s)
		}
	}

	if _, ok := c.Classify("Cotton Quilt", "A bed set in muted tones."); !ok {
		t.Fatalf("phrase inside the description must still match")
	}
}
