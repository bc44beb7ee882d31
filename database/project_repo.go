package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-moderation-backend/models"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db   *gorm.DB
	feed *ChangeFeed
}

func NewProjectRepo(db *gorm.DB, feed *ChangeFeed) *ProjectRepo {
	return &ProjectRepo{db: db, feed: feed}
}

// FindAll returns all projects, newest first, from the primary
func (r *ProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	if err := primary(ctx, r.db).Find(&projects).Error; err != nil {
		return nil, err
	}
	SortNewestFirst(projects, projectCreatedAt)
	return projects, nil
}

// FindByCategory returns the projects of one showcase category. An empty
// category returns every project.
func (r *ProjectRepo) FindByCategory(ctx context.Context, category string) ([]*models.Project, error) {
	if category == "" {
		return r.FindAll(ctx)
	}
	var projects []*models.Project
	if err := r.db.WithContext(ctx).Where("category = ?", category).Find(&projects).Error; err != nil {
		return nil, err
	}
	SortNewestFirst(projects, projectCreatedAt)
	return projects, nil
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := primary(ctx, r.db).First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	project.ID, project.CreatedAt = stamp()
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return err
	}
	r.feed.Publish(ctx, Projects)
	return nil
}

// Update overwrites the editable fields of an existing project
func (r *ProjectRepo) Update(ctx context.Context, id uuid.UUID, project *models.Project) error {
	if err := patch(ctx, r.db, &models.Project{}, id, project.Patch()); err != nil {
		return err
	}
	r.feed.Publish(ctx, Projects)
	return nil
}

// Delete removes a project from the database by id
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := remove(ctx, r.db, &models.Project{}, id); err != nil {
		return err
	}
	r.feed.Publish(ctx, Projects)
	return nil
}

func (r *ProjectRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Count(&n).Error
	return n, err
}
