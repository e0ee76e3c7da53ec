package services

import (
	"context"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/recipebox/recipebox/database/repositories"
)

var validImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

const maxImageSize int64 = 10 * 1024 * 1024

// ImageService validates and stores recipe image uploads.
type ImageService struct {
	store   ImageStore
	recipes repositories.RecipeRepository
}

func NewImageService(store ImageStore, recipes repositories.RecipeRepository) *ImageService {
	return &ImageService{
		store:   store,
		recipes: recipes,
	}
}

// UploadRecipeImage stores the uploaded file under a fresh random name,
// points the recipe at it, and disposes of any previously stored image.
// Returns the public URL of the stored image.
func (s *ImageService) UploadRecipeImage(ctx context.Context, recipeID, userID int64, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !isValidImageExtension(ext) {
		return "", &repositories.ValidationError{Field: "image", Message: "unsupported image format"}
	}
	if file.Size > maxImageSize {
		return "", &repositories.ValidationError{Field: "image", Message: "image exceeds maximum size"}
	}

	body, err := file.Open()
	if err != nil {
		return "", err
	}
	defer body.Close()

	storedPath := path.Join("uploads", "recipe", uuid.New().String()+ext)
	contentType := file.Header.Get("Content-Type")
	if err := s.store.Save(ctx, storedPath, contentType, body); err != nil {
		return "", err
	}

	previous, err := s.recipes.SetImagePath(ctx, recipeID, userID, storedPath)
	if err != nil {
		// The recipe row was not updated; don't leave the orphan behind.
		_ = s.store.Remove(ctx, storedPath)
		return "", err
	}
	if previous != "" {
		_ = s.store.Remove(ctx, previous)
	}

	return s.store.URL(storedPath), nil
}

// ImageURL resolves a stored path to its public URL, or "" when the recipe
// has no image.
func (s *ImageService) ImageURL(storedPath string) string {
	if storedPath == "" {
		return ""
	}
	return s.store.URL(storedPath)
}

func isValidImageExtension(ext string) bool {
	for _, valid := range validImageExtensions {
		if ext == valid {
			return true
		}
	}
	return false
}
