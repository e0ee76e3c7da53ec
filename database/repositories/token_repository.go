package repositories

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/recipebox/recipebox/database/models"
)

const tokenKeyBytes = 20 // 40 hex characters on the wire

type TokenRepository interface {
	Create(ctx context.Context, userID int64) (*models.AuthToken, error)
	GetByKey(ctx context.Context, key string) (*models.AuthToken, error)
	Delete(ctx context.Context, key string) error
}

type tokenRepository struct {
	db *bun.DB
}

func NewTokenRepository(db *bun.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, userID int64) (*models.AuthToken, error) {
	raw := make([]byte, tokenKeyBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate token key: %w", err)
	}

	token := &models.AuthToken{
		Key:       hex.EncodeToString(raw),
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if _, err := r.db.NewInsert().Model(token).Exec(ctx); err != nil {
		return nil, err
	}
	return token, nil
}

func (r *tokenRepository) GetByKey(ctx context.Context, key string) (*models.AuthToken, error) {
	token := new(models.AuthToken)
	err := r.db.NewSelect().
		Model(token).
		Relation("User").
		Where("at.key = ?", key).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "token", ID: key}
	}
	return token, err
}

func (r *tokenRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.NewDelete().
		Model((*models.AuthToken)(nil)).
		Where("key = ?", key).
		Exec(ctx)
	return err
}
