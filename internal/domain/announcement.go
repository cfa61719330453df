package domain

import (
	"context"
	"time"
)

// Announcement is a platform-wide post shown on the dashboard.
type Announcement struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	AuthorID    string    `json:"author_id"`
	PublishedAt time.Time `json:"published_at"`

	AuthorName *string `json:"author_name,omitempty"`
}

type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *Announcement) error
	// Fetch returns all announcements, newest first.
	Fetch(ctx context.Context) ([]Announcement, error)
}

type CreateAnnouncementInput struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

type AnnouncementUsecase interface {
	CreateAnnouncement(ctx context.Context, actor Actor, input CreateAnnouncementInput) (*Announcement, error)
	ListAnnouncements(ctx context.Context) ([]Announcement, error)
}
