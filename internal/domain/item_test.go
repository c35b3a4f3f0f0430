package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEducationalItemJSONOmitsAbsentOptionals(t *testing.T) {
	item := EducationalItem{
		ID:         "OL123W",
		Title:      "Test Course",
		Type:       TypeCourse,
		Instructor: "Jane Doe",
		Duration:   "10h",
		Level:      LevelBeginner,
		Rating:     4.2,
		Price:      99,
		Category:   "Programming",
	}

	b, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)

	if strings.Contains(s, `"date"`) {
		t.Errorf("Expected no date key for a course, got %s", s)
	}
	if strings.Contains(s, `"location"`) {
		t.Errorf("Expected no location key for a course, got %s", s)
	}
	if !strings.Contains(s, `"type":"course"`) {
		t.Errorf("Expected type course in %s", s)
	}
}

func TestEducationalItemJSONKeepsEventFields(t *testing.T) {
	date := "2026-11-01T10:00:00Z"
	loc := "London"
	item := EducationalItem{ID: "OL1W", Type: TypeEvent, Date: &date, Location: &loc}

	b, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back EducationalItem
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Date == nil || *back.Date != date {
		t.Errorf("Expected date %q, got %v", date, back.Date)
	}
	if back.Location == nil || *back.Location != loc {
		t.Errorf("Expected location %q, got %v", loc, back.Location)
	}
	if back.Price != 0 {
		t.Errorf("Expected event price 0, got %d", back.Price)
	}
}

func TestItemTypesOrder(t *testing.T) {
	want := []ItemType{TypeCourse, TypeWorkshop, TypeEvent}
	if len(ItemTypes) != len(want) {
		t.Fatalf("Expected %d types, got %d", len(want), len(ItemTypes))
	}
	for i := range want {
		if ItemTypes[i] != want[i] {
			t.Errorf("ItemTypes[%d] = %q, want %q", i, ItemTypes[i], want[i])
		}
	}
}
