package usecase

import (
	"context"

	"connectmetric-backend/internal/domain"
	"connectmetric-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type announcementUsecase struct {
	repo     domain.AnnouncementRepository
	validate *validator.Validate
}

func NewAnnouncementUsecase(repo domain.AnnouncementRepository, validate *validator.Validate) domain.AnnouncementUsecase {
	return &announcementUsecase{repo: repo, validate: validate}
}

// CreateAnnouncement publishes a platform-wide post (staff only)
func (u *announcementUsecase) CreateAnnouncement(ctx context.Context, actor domain.Actor, input domain.CreateAnnouncementInput) (*domain.Announcement, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := u.validate.Struct(input); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	announcement := &domain.Announcement{
		Title:    input.Title,
		Content:  input.Content,
		AuthorID: actor.ID,
	}

	if err := u.repo.Create(ctx, announcement); err != nil {
		return nil, apperror.Internal(err)
	}
	return announcement, nil
}

func (u *announcementUsecase) ListAnnouncements(ctx context.Context) ([]domain.Announcement, error) {
	announcements, err := u.repo.Fetch(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return announcements, nil
}
