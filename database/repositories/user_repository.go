package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/recipebox/recipebox/auth"
	"github.com/recipebox/recipebox/database/models"
)

type CreateUserParams struct {
	Email    string
	Name     string
	Password string
	IsStaff  bool
}

type UserPatch struct {
	Name     *string
	Password *string
}

type UserRepository interface {
	Create(ctx context.Context, params CreateUserParams) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	Update(ctx context.Context, id int64, patch UserPatch) (*models.User, error)
}

type userRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, params CreateUserParams) (*models.User, error) {
	email := models.NormalizeEmail(params.Email)
	if email == "" {
		return nil, &ValidationError{Field: "email", Message: "email is required"}
	}
	if params.Password == "" {
		return nil, &ValidationError{Field: "password", Message: "password is required"}
	}

	hashed, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, &ValidationError{Field: "password", Message: err.Error()}
	}

	user := &models.User{
		Email:     email,
		Name:      params.Name,
		Password:  hashed,
		IsStaff:   params.IsStaff,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if _, err := r.db.NewInsert().Model(user).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Entity: "user", Field: "email", Value: email}
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("u.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "user", ID: id}
	}
	return user, err
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("u.email = ?", models.NormalizeEmail(email)).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "user", ID: email}
	}
	return user, err
}

// Authenticate resolves an email/password pair to an active user. Bad
// credentials and inactive accounts are indistinguishable to the caller.
func (r *userRepository) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		var nfe *NotFoundError
		if errors.As(err, &nfe) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !auth.VerifyPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, id int64, patch UserPatch) (*models.User, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	columns := []string{"updated_at"}
	if patch.Name != nil {
		user.Name = *patch.Name
		columns = append(columns, "name")
	}
	if patch.Password != nil {
		if *patch.Password == "" {
			return nil, &ValidationError{Field: "password", Message: "password is required"}
		}
		hashed, err := auth.HashPassword(*patch.Password)
		if err != nil {
			return nil, &ValidationError{Field: "password", Message: err.Error()}
		}
		user.Password = hashed
		columns = append(columns, "password")
	}

	user.UpdatedAt = time.Now()
	if _, err := r.db.NewUpdate().
		Model(user).
		Column(columns...).
		WherePK().
		Exec(ctx); err != nil {
		return nil, err
	}
	return user, nil
}
