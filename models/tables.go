package models

import "time"

type User struct {
	ID           int    `gorm:"primary_key;autoIncrement" json:"id"`
	PasswordHash string `gorm:"not null" json:"-"` // json:"-" prevents password from being exposed in API
	Email        string `gorm:"unique;not null" json:"email"`
	IsAdmin      bool   `gorm:"default:false" json:"is_admin"`
	IsSuperAdmin bool   `gorm:"default:false" json:"is_super_admin"` // required on top of IsAdmin for permanent deletes
	IsActive     bool   `gorm:"default:true" json:"is_active"`       // inactive users cannot create posts
}

type Post struct {
	ID          uint       `gorm:"primary_key"`
	UserID      int        `gorm:"not null;index" json:"user_id"` // author, auto-filled
	CategoryID  *int       `gorm:"index" json:"category_id"`      // nullable - uncategorized posts allowed
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Title       string     `gorm:"not null" json:"title"` // mandatory
	Slug        string     `gorm:"not null;index" json:"slug"`
	Content     string     `gorm:"type:text" json:"content"`
	Published   bool       `gorm:"default:false;index" json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ViewsCount  int64      `gorm:"default:0" json:"views_count"` // denormalized, kept in sync by views.Recorder
}

type Category struct {
	ID   int    `gorm:"primary_key;autoIncrement" json:"id"`
	Name string `gorm:"not null" json:"name"`
	Slug string `gorm:"unique;not null;index" json:"slug"`
}

type Tag struct {
	ID   uint   `gorm:"primary_key"`
	Name string `gorm:"not null;index" json:"name"`
	Slug string `gorm:"unique;not null;index" json:"slug"`
}

type PostTag struct {
	ID     uint `gorm:"primary_key"`
	PostID int  `gorm:"not null;index" json:"post_id"`
	TagID  int  `gorm:"not null;index" json:"tag_id"`
}

type Comment struct {
	ID        uint      `gorm:"primary_key"`
	PostID    int       `gorm:"not null;index" json:"post_id"`
	UserID    int       `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Approved  bool      `gorm:"default:false;index" json:"approved"` // hidden until moderated
}

// View is append-only. Rows are never updated or deleted.
type View struct {
	ID        uint      `gorm:"primary_key;autoIncrement"`
	PostID    int       `gorm:"not null;index" json:"post_id"`
	UserID    *int      `gorm:"index" json:"user_id,omitempty"` // nullable - anonymous readers
	IPAddress *string   `json:"ip_address,omitempty"`
	UserAgent *string   `json:"user_agent,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

type NewsletterSubscriber struct {
	ID               int    `gorm:"primary_key;autoIncrement" json:"id"`
	Email            string `gorm:"unique;not null" json:"email"`
	UnsubscribeToken string `gorm:"unique;not null;index" json:"-"` // stable for the lifetime of the subscription
	Active           bool   `gorm:"default:true;index" json:"active"`
}
