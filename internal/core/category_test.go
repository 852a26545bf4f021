package core

import "testing"

func sampleCategories() []Category {
	return []Category{
		{ID: "person", Type: Nominal, Values: []Value{{Label: "alice"}, {Label: "bob"}, {Label: "carol"}}},
		{ID: "house", Type: Ordinal, Values: []Value{{Label: "h1", Num: 1}, {Label: "h2", Num: 2}, {Label: "h3", Num: 3}}},
		{ID: "pet", Type: Nominal, Values: []Value{{Label: "cat"}, {Label: "dog"}, {Label: "fish"}}},
	}
}

func TestValidateCategories_OK(t *testing.T) {
	validated, err := ValidateCategories(sampleCategories())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	house := FindCategory(validated, "house")
	if house == nil {
		t.Fatal("expected to find house category")
	}
	rank, ok := house.Rank("h1")
	if !ok || rank != 0 {
		t.Errorf("expected h1 rank 0, got %d (ok=%v)", rank, ok)
	}
	label, ok := house.ValueAtRank(2)
	if !ok || label != "h3" {
		t.Errorf("expected rank 2 to be h3, got %q (ok=%v)", label, ok)
	}
}

func TestValidateCategories_TooFew(t *testing.T) {
	_, err := ValidateCategories([]Category{sampleCategories()[0]})
	if err == nil {
		t.Fatal("expected error for fewer than two categories")
	}
}

func TestValidateCategories_MismatchedArity(t *testing.T) {
	cats := sampleCategories()
	cats[1].Values = cats[1].Values[:2]
	_, err := ValidateCategories(cats)
	if err == nil {
		t.Fatal("expected error for mismatched arity")
	}
}

func TestValidateCategories_DuplicateValue(t *testing.T) {
	cats := sampleCategories()
	cats[0].Values[1].Label = cats[0].Values[0].Label
	_, err := ValidateCategories(cats)
	if err == nil {
		t.Fatal("expected error for duplicate value label")
	}
}

func TestValidateCategories_DuplicateOrdinalNum(t *testing.T) {
	cats := sampleCategories()
	cats[1].Values[1].Num = cats[1].Values[0].Num
	_, err := ValidateCategories(cats)
	if err == nil {
		t.Fatal("expected error for duplicate ordinal numeric value")
	}
}

func TestHasMixedParity(t *testing.T) {
	cats, err := ValidateCategories(sampleCategories())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	house := FindCategory(cats, "house")
	if !house.HasMixedParity() {
		t.Error("house category should have mixed parity (1, 2, 3)")
	}

	allOdd := Category{ID: "odd", Type: Ordinal, Values: []Value{{Label: "a", Num: 1}, {Label: "b", Num: 3}}}
	if allOdd.HasMixedParity() {
		t.Error("all-odd category should not report mixed parity")
	}
}

func TestOrdinalCategories(t *testing.T) {
	cats, err := ValidateCategories(sampleCategories())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ordinals := OrdinalCategories(cats)
	if len(ordinals) != 1 || ordinals[0].ID != "house" {
		t.Errorf("expected exactly one ordinal category (house), got %v", ordinals)
	}
}
