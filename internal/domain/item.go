package domain

// ItemType is the kind of offering an item represents.
type ItemType string

const (
	TypeCourse   ItemType = "course"
	TypeWorkshop ItemType = "workshop"
	TypeEvent    ItemType = "event"
)

// ItemTypes is the fixed round-robin order used when assigning types.
var ItemTypes = []ItemType{TypeCourse, TypeWorkshop, TypeEvent}

// Level is the difficulty of an item.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// EducationalItem is the canonical representation of a catalog entry.
// Every upstream record is normalized into this shape before it reaches
// the cache or a caller.
type EducationalItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        ItemType `json:"type"`
	Instructor  string   `json:"instructor"`
	Duration    string   `json:"duration"`
	Level       Level    `json:"level"`
	Rating      float64  `json:"rating"`
	Thumbnail   string   `json:"thumbnail"`
	Price       int      `json:"price"`
	Category    string   `json:"category"`

	Date     *string `json:"date,omitempty"`     // events only, RFC 3339
	Location *string `json:"location,omitempty"` // workshops and events
}
