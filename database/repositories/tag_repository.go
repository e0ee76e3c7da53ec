package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/recipebox/recipebox/database/models"
)

type TagRepository interface {
	List(ctx context.Context, userID int64, assignedOnly bool) ([]*models.Tag, error)
	GetForUser(ctx context.Context, id, userID int64) (*models.Tag, error)
	// GetOrCreate resolves (userID, name) to an existing tag or inserts one.
	// It runs on any bun.IDB so recipe writes can call it mid-transaction.
	GetOrCreate(ctx context.Context, idb bun.IDB, userID int64, name string) (*models.Tag, error)
	Update(ctx context.Context, id, userID int64, name string) (*models.Tag, error)
	Delete(ctx context.Context, id, userID int64) error
}

type tagRepository struct {
	db *bun.DB
}

func NewTagRepository(db *bun.DB) TagRepository {
	return &tagRepository{db: db}
}

// List returns the user's tags ordered by name descending. With assignedOnly
// set, only tags attached to at least one recipe are returned, each once.
func (r *tagRepository) List(ctx context.Context, userID int64, assignedOnly bool) ([]*models.Tag, error) {
	var tags []*models.Tag
	q := r.db.NewSelect().
		Model(&tags).
		Where("t.user_id = ?", userID).
		Order("t.name DESC")
	if assignedOnly {
		q = q.Distinct().
			Join("JOIN recipe_tags AS rt ON rt.tag_id = t.id")
	}
	err := q.Scan(ctx)
	return tags, err
}

func (r *tagRepository) GetForUser(ctx context.Context, id, userID int64) (*models.Tag, error) {
	tag := new(models.Tag)
	err := r.db.NewSelect().
		Model(tag).
		Where("t.id = ? AND t.user_id = ?", id, userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "tag", ID: id}
	}
	return tag, err
}

func (r *tagRepository) GetOrCreate(ctx context.Context, idb bun.IDB, userID int64, name string) (*models.Tag, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}

	tag := &models.Tag{
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
	}
	// The no-op DO UPDATE makes RETURNING fire for the existing row too, so
	// a concurrent create collapses to "use existing" instead of erroring.
	_, err := idb.NewInsert().
		Model(tag).
		On("CONFLICT (user_id, name) DO UPDATE").
		Set("name = EXCLUDED.name").
		Returning("id, created_at").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (r *tagRepository) Update(ctx context.Context, id, userID int64, name string) (*models.Tag, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}

	tag, err := r.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	tag.Name = name
	if _, err := r.db.NewUpdate().
		Model(tag).
		Column("name").
		WherePK().
		Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Entity: "tag", Field: "name", Value: name}
		}
		return nil, err
	}
	return tag, nil
}

func (r *tagRepository) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.db.NewDelete().
		Model((*models.Tag)(nil)).
		Where("id = ? AND user_id = ?", id, userID).
		Exec(ctx)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return &NotFoundError{Entity: "tag", ID: id}
	}

	// Relational cleanup; recipes keep existing without the tag.
	_, err = r.db.NewDelete().
		Model((*models.RecipeTag)(nil)).
		Where("tag_id = ?", id).
		Exec(ctx)
	return err
}
