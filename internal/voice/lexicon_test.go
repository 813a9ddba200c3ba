package voice

import "testing"

func TestInferCategory(t *testing.T) {
	tests := []struct {
		productName string
		want        string
	}{
		{"basmati rice", "Grains"},
		{"tomatoes", "Vegetables"},
		{"Alphonso Mango", "Fruits"},
		{"fresh paneer", "Dairy"},
		{"garam masala", "Spices"},
		{"cotton saree", "Clothing"},
		{"bath soap", "Household"},
		{"xyz-unknown-item", "Other"},
		{"", "Other"},
	}

	for _, tt := range tests {
		if got := InferCategory(tt.productName); got != tt.want {
			t.Errorf("InferCategory(%q) = %q, want %q", tt.productName, got, tt.want)
		}
	}
}

// "cream" appears under Dairy and "face cream" under Personal Care. Dairy is
// declared first, so a plain "cream" product lands there; the declaration
// order is the only disambiguation the lexicon has.
func TestInferCategory_FirstCategoryWins(t *testing.T) {
	if got := InferCategory("malai cream"); got != "Dairy" {
		t.Errorf("InferCategory(\"malai cream\") = %q, want %q", got, "Dairy")
	}
	if got := InferCategory("hair oil"); got != "Household" {
		// "oil" hits Household before Personal Care's "hair oil" keyword.
		t.Errorf("InferCategory(\"hair oil\") = %q, want %q", got, "Household")
	}
}

func TestCategories(t *testing.T) {
	cats := Categories()
	if len(cats) == 0 {
		t.Fatal("Categories returned no entries")
	}
	if cats[0] != "Vegetables" {
		t.Errorf("first category = %q, want %q", cats[0], "Vegetables")
	}
	if cats[len(cats)-1] != CategoryOther {
		t.Errorf("last category = %q, want %q", cats[len(cats)-1], CategoryOther)
	}
}

func TestCategoryKeywords(t *testing.T) {
	kws := CategoryKeywords("Grains")
	if len(kws) == 0 {
		t.Fatal("CategoryKeywords(\"Grains\") returned no keywords")
	}
	found := false
	for _, kw := range kws {
		if kw == "rice" {
			found = true
		}
	}
	if !found {
		t.Error("Grains keywords should contain \"rice\"")
	}

	if kws := CategoryKeywords("Nonexistent"); kws != nil {
		t.Errorf("CategoryKeywords for unknown category = %v, want nil", kws)
	}
}
