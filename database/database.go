package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-moderation-backend/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

type Database struct {
	db              *gorm.DB
	feed            *ChangeFeed
	contactRepo     *ContactRepo
	testimonialRepo *TestimonialRepo
	projectRepo     *ProjectRepo
}

// New initializes a new Database struct with each repository sharing one GORM instance and change feed
func New(db *gorm.DB, feed *ChangeFeed) Database {
	if feed == nil {
		feed = NewChangeFeed()
	}
	return Database{
		db:              db,
		feed:            feed,
		contactRepo:     NewContactRepo(db, feed),
		testimonialRepo: NewTestimonialRepo(db, feed),
		projectRepo:     NewProjectRepo(db, feed),
	}
}

// Accessor methods for each repository

func (d Database) ContactRepo() *ContactRepo {
	return d.contactRepo
}

func (d Database) TestimonialRepo() *TestimonialRepo {
	return d.testimonialRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) Feed() *ChangeFeed {
	return d.feed
}

// Ping checks connectivity with a trivial query.
func (d Database) Ping(ctx context.Context) error {
	var result int
	return d.db.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error
}

// Options configures Open.
type Options struct {
	DSN        string
	ReplicaDSN string
	LogLevel   logger.LogLevel
}

// Open connects to Postgres. Reads are routed to ReplicaDSN when one is set.
func Open(opts Options) (*gorm.DB, error) {
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Warn
	}
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  opts.LogLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  opts.DSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if opts.ReplicaDSN != "" {
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.New(postgres.Config{
				DSN:                  opts.ReplicaDSN,
				PreferSimpleProtocol: true,
			})},
			Policy:            dbresolver.RandomPolicy{},
			TraceResolverMode: opts.LogLevel == logger.Info,
		})
		if err := db.Use(resolver); err != nil {
			return nil, fmt.Errorf("registering read replica: %w", err)
		}
	}

	return db, nil
}

// Migrate creates or updates the tables of every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrating models: %w", err)
	}
	return nil
}

// patch applies fields to the row of model with id, failing with
// gorm.ErrRecordNotFound when no row matched.
func patch(ctx context.Context, db *gorm.DB, model any, id uuid.UUID, fields map[string]any) error {
	res := db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// remove deletes the row of model with id, failing with
// gorm.ErrRecordNotFound when no row matched.
func remove(ctx context.Context, db *gorm.DB, model any, id uuid.UUID) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// primary pins a statement to the source database. Reads that must observe a
// write just made, and NOTIFY, cannot run on a hot standby.
func primary(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.WithContext(ctx).Clauses(dbresolver.Write)
}

func stamp() (uuid.UUID, time.Time) {
	return uuid.New(), time.Now().UTC()
}
