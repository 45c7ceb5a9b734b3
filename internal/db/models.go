package db

import (
	"time"
)

// Profile is owned by the profile CRUD service; the matching core only reads it.
// Username is the identity used everywhere else in this service.
type Profile struct {
	ID                uint64     `gorm:"primaryKey;autoIncrement"`
	Username          string     `gorm:"uniqueIndex;size:64;not null"`
	Email             string     `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash      string     `gorm:"size:255;not null"`
	FirstName         string     `gorm:"size:64"`
	LastName          string     `gorm:"size:64"`
	Gender            string     `gorm:"size:16"`
	SexualPreferences []string   `gorm:"serializer:json"`
	Interests         []string   `gorm:"serializer:json"`
	BirthDate         *time.Time
	Latitude          *float64
	Longitude         *float64
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

// Like is a directed edge liker -> liked.
//
// Composite PK: (Liker, Liked)
//   - At most one like per ordered pair; inserts use ON CONFLICT DO NOTHING so
//     a repeated like is detected by RowsAffected == 0.
//
// Indexes:
//   - idx_liked_created(liked, created_at DESC)
//     Serves "who liked me" counts and the reverse-like lookup.
type Like struct {
	Liker     string    `gorm:"primaryKey;size:64"`
	Liked     string    `gorm:"primaryKey;size:64;index:idx_liked_created,priority:1"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_liked_created,priority:2,sort:desc"`
}

// Match is an undirected pair stored in canonical order: UserA < UserB.
//
// Composite PK: (UserA, UserB)
//   - The unique pair constraint is what makes concurrent mutual likes
//     produce a single row.
//
// Indexes:
//   - idx_match_user_b(user_b) so lookups by either member stay indexed.
type Match struct {
	UserA     string    `gorm:"primaryKey;size:64"`
	UserB     string    `gorm:"primaryKey;size:64;index:idx_match_user_b"`
	MatchedAt time.Time `gorm:"not null"`
}

// Message between two matched users. Only Delivered changes after insert.
//
// Indexes:
//   - idx_conversation(sender, recipient, id) for history in both directions.
type Message struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement;index:idx_conversation,priority:3"`
	Sender    string    `gorm:"size:64;not null;index:idx_conversation,priority:1"`
	Recipient string    `gorm:"size:64;not null;index:idx_conversation,priority:2"`
	Body      string    `gorm:"type:text;not null"`
	Delivered bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Models lists everything AutoMigrate has to know about.
func Models() []any {
	return []any{&Profile{}, &Like{}, &Match{}, &Message{}}
}
