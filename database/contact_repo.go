package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-moderation-backend/models"
	"gorm.io/gorm"
)

type ContactRepo struct {
	db   *gorm.DB
	feed *ChangeFeed
}

func NewContactRepo(db *gorm.DB, feed *ChangeFeed) *ContactRepo {
	return &ContactRepo{db: db, feed: feed}
}

// FindAll returns every contact submission, newest first
func (r *ContactRepo) FindAll(ctx context.Context) ([]*models.ContactSubmission, error) {
	var contacts []*models.ContactSubmission
	if err := primary(ctx, r.db).Find(&contacts).Error; err != nil {
		return nil, err
	}
	SortNewestFirst(contacts, contactCreatedAt)
	return contacts, nil
}

// FindByID returns a contact submission by its ID
func (r *ContactRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ContactSubmission, error) {
	var contact models.ContactSubmission
	if err := primary(ctx, r.db).First(&contact, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

// Add assigns the ID and creation time, then inserts the submission
func (r *ContactRepo) Add(ctx context.Context, contact *models.ContactSubmission) error {
	contact.ID, contact.CreatedAt = stamp()
	if err := r.db.WithContext(ctx).Create(contact).Error; err != nil {
		return err
	}
	r.feed.Publish(ctx, Contacts)
	return nil
}

// Delete permanently removes a contact submission
func (r *ContactRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := remove(ctx, r.db, &models.ContactSubmission{}, id); err != nil {
		return err
	}
	r.feed.Publish(ctx, Contacts)
	return nil
}

func (r *ContactRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.ContactSubmission{}).Count(&n).Error
	return n, err
}
