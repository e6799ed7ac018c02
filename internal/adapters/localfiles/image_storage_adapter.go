package localfiles

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"apartment-listing-service/internal/contextkeys"
	"apartment-listing-service/internal/core/domain"
	"apartment-listing-service/internal/core/port"

	"github.com/google/uuid"
)

// ImageStorageAdapter реализует ImageStoragePort поверх локального каталога.
type ImageStorageAdapter struct {
	dir string
}

// NewImageStorageAdapter создает адаптер и каталог загрузок, если его нет.
func NewImageStorageAdapter(dir string) (*ImageStorageAdapter, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &ImageStorageAdapter{dir: dir}, nil
}

// Save сохраняет файл под именем "<uuid>_<санитизированное имя>".
// Префикс гарантирует уникальность и исключает коллизии загрузок
// с одинаковыми исходными именами.
func (a *ImageStorageAdapter) Save(ctx context.Context, originalName string, data io.Reader) (string, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	fsLogger := logger.WithFields(port.Fields{
		"component":     "ImageStorageAdapter",
		"method":        "Save",
		"original_name": originalName,
	})

	storedName := uuid.New().String() + "_" + SanitizeFilename(originalName)

	file, err := os.Create(filepath.Join(a.dir, storedName))
	if err != nil {
		fsLogger.Error("Failed to create file", err, nil)
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(file, data); err != nil {
		file.Close()
		os.Remove(file.Name())
		fsLogger.Error("Failed to write file", err, nil)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	fsLogger.Info("Image stored", port.Fields{"stored_name": storedName})
	return storedName, nil
}

// Open открывает сохраненный файл. Имя проверяется до любого обращения
// к файловой системе.
func (a *ImageStorageAdapter) Open(ctx context.Context, storedName string) (io.ReadCloser, int64, error) {
	if err := ValidateStoredName(storedName); err != nil {
		return nil, 0, err
	}

	file, err := os.Open(filepath.Join(a.dir, storedName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, fmt.Errorf("file %s: %w", storedName, domain.ErrImageNotFound)
		}
		return nil, 0, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, fmt.Errorf("failed to stat file: %w", err)
	}

	return file, info.Size(), nil
}

// Exists проверяет наличие файла. Имя проверяется до обращения к диску.
func (a *ImageStorageAdapter) Exists(ctx context.Context, storedName string) (bool, error) {
	if err := ValidateStoredName(storedName); err != nil {
		return false, err
	}

	if _, err := os.Stat(filepath.Join(a.dir, storedName)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file: %w", err)
	}
	return true, nil
}

// SanitizeFilename приводит имя к нижнему регистру и оставляет только
// ASCII буквы, цифры, дефисы и подчеркивания; расширение обрабатывается
// отдельно, чтобы сохранить точку перед ним.
func SanitizeFilename(name string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	stem := sanitizeToken(strings.TrimSuffix(base, ext))
	ext = sanitizeToken(strings.TrimPrefix(ext, "."))

	if stem == "" {
		stem = "image"
	}
	if ext == "" {
		return stem
	}
	return stem + "." + ext
}

func sanitizeToken(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateStoredName отклоняет пустые имена и любые следы обхода пути.
func ValidateStoredName(name string) error {
	if name == "" {
		return fmt.Errorf("empty name: %w", domain.ErrInvalidFilename)
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("name %q: %w", name, domain.ErrInvalidFilename)
	}
	return nil
}
