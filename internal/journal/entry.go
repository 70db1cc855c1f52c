package journal

import (
	"database/sql/driver"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Entry is one journal writing unit tied to a calendar day.
//
// Content and Mood are editable only while IsLocked is false. Tags and
// IsBookmarked stay editable after locking. Updates only grow, and only
// once the entry is locked. WordCount is derived from Content.
type Entry struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID      uint64    `gorm:"index;not null" json:"owner_id"`
	Day          Day       `gorm:"type:varchar(10);index;not null" json:"day"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	Mood         *Mood     `gorm:"type:varchar(16)" json:"mood"`
	Tags         TagList   `gorm:"not null" json:"tags"`
	WordCount    int       `gorm:"not null" json:"word_count"`
	IsLocked     bool      `gorm:"not null" json:"is_locked"`
	IsBookmarked bool      `gorm:"not null" json:"is_bookmarked"`
	Updates      []Update  `gorm:"foreignKey:EntryID" json:"updates"`
	CreatedAt    time.Time `gorm:"index;not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime:false" json:"updated_at"`
}

// Update is an addendum appended to a locked entry. Never edited once written.
type Update struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	EntryID   string    `gorm:"index;not null;type:varchar(36)" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false" json:"created_at"`
}

func (Update) TableName() string { return "entry_updates" }

// clone returns a deep copy so callers never alias repository state.
func (e Entry) clone() Entry {
	c := e
	if e.Mood != nil {
		m := *e.Mood
		c.Mood = &m
	}
	c.Tags = append(TagList{}, e.Tags...)
	c.Updates = append([]Update{}, e.Updates...)
	return c
}

// Event types recorded in the entry timeline.
const (
	EventCreated         = "CREATED"
	EventUpdated         = "UPDATED"
	EventTagsUpdated     = "TAGS_UPDATED"
	EventLocked          = "LOCKED"
	EventUpdateAppended  = "UPDATE_APPENDED"
	EventBookmarkToggled = "BOOKMARK_TOGGLED"
)

// Event is append-only. IdempotencyKey is only set on CREATED events and is
// unique per owner.
type Event struct {
	ID             uint64         `gorm:"primaryKey" json:"id"`
	EntryID        string         `gorm:"index;not null;type:varchar(36)" json:"entry_id"`
	OwnerID        uint64         `gorm:"index;not null" json:"owner_id"`
	Type           string         `gorm:"not null" json:"type"`
	Payload        datatypes.JSON `gorm:"not null" json:"payload"`
	IdempotencyKey *string        `gorm:"index" json:"idempotency_key,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;autoCreateTime:false" json:"created_at"`
}

func (Event) TableName() string { return "entry_events" }

// TagColor is an explicit color choice for one of an owner's tags.
type TagColor struct {
	OwnerID uint64 `gorm:"primaryKey"`
	Tag     string `gorm:"primaryKey;type:varchar(64)"`
	Color   string `gorm:"type:varchar(7);not null"`
}

// Award records that an owner reached a milestone streak length.
type Award struct {
	ID        uint64    `gorm:"primaryKey" json:"-"`
	OwnerID   uint64    `gorm:"uniqueIndex:uq_award_owner_days;not null" json:"-"`
	Days      int       `gorm:"uniqueIndex:uq_award_owner_days;not null" json:"days"`
	Label     string    `gorm:"not null" json:"label"`
	AwardedAt time.Time `gorm:"not null;autoCreateTime:false" json:"awarded_at"`
}

func (Award) TableName() string { return "milestone_awards" }

// TagList is stored as text[] on postgres and as the same array literal in
// a text column elsewhere.
type TagList []string

func (TagList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		t = TagList{}
	}
	return pq.StringArray(t).Value()
}

func (t *TagList) Scan(src any) error {
	var a pq.StringArray
	if err := a.Scan(src); err != nil {
		return err
	}
	*t = TagList(a)
	return nil
}

func (t TagList) Has(tag string) bool {
	for _, v := range t {
		if v == tag {
			return true
		}
	}
	return false
}
