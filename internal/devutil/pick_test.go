package devutil

import (
	"reflect"
	"testing"

	"edu-catalog/internal/domain"
)

func TestPick(t *testing.T) {
	loc := "London"
	item := domain.EducationalItem{
		ID:       "OL45883W",
		Title:    "Structure and Interpretation of Computer Programs",
		Type:     domain.TypeWorkshop,
		Price:    120,
		Location: &loc,
	}

	testCases := []struct {
		name     string
		input    any
		keys     []string
		expected map[string]any
	}{
		{
			name:     "Pick from item",
			input:    item,
			keys:     []string{"id", "price", "location"},
			expected: map[string]any{"id": "OL45883W", "price": float64(120), "location": "London"},
		},
		{
			name:     "Omitted fields are skipped",
			input:    item,
			keys:     []string{"id", "date"},
			expected: map[string]any{"id": "OL45883W"},
		},
		{
			name:     "Pick from map",
			input:    map[string]any{"title": "Go", "type": "course"},
			keys:     []string{"type", "unknown"},
			expected: map[string]any{"type": "course"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Pick(tc.input, tc.keys...)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Pick() = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestPickAllKeys(t *testing.T) {
	got, err := Pick(domain.EducationalItem{ID: "X"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got["id"] != "X" {
		t.Errorf("Expected id X, got %v", got["id"])
	}
	if _, ok := got["date"]; ok {
		t.Error("Expected omitempty date to be absent")
	}
}

func TestPickNonObject(t *testing.T) {
	if _, err := Pick([]int{1, 2}, "a"); err == nil {
		t.Error("Expected error for a JSON array")
	}
	if _, err := Pick(make(chan int)); err == nil {
		t.Error("Expected error for an unmarshalable value")
	}
}

func TestSplitFields(t *testing.T) {
	got := SplitFields(" id, title,,price ")
	want := []string{"id", "title", "price"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitFields() = %v, want %v", got, want)
	}
	if SplitFields("") != nil {
		t.Error("Expected nil for empty input")
	}
}
