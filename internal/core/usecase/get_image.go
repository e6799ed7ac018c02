package usecase

import (
	"context"
	"fmt"
	"io"

	"apartment-listing-service/internal/contextkeys"
	"apartment-listing-service/internal/core/port"
)

// GetImageUseCase открывает сохраненное изображение на чтение.
type GetImageUseCase struct {
	images port.ImageStoragePort
}

func NewGetImageUseCase(images port.ImageStoragePort) *GetImageUseCase {
	return &GetImageUseCase{images: images}
}

func (uc *GetImageUseCase) Execute(ctx context.Context, storedName string) (io.ReadCloser, int64, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "GetImage",
		"stored_name": storedName,
	})

	content, size, err := uc.images.Open(ctx, storedName)
	if err != nil {
		ucLogger.Warn("Image storage refused to open file", port.Fields{"error": err.Error()})
		return nil, 0, fmt.Errorf("failed to open image: %w", err)
	}

	return content, size, nil
}

// StatImageUseCase проверяет наличие изображения (для HEAD-запросов).
type StatImageUseCase struct {
	images port.ImageStoragePort
}

func NewStatImageUseCase(images port.ImageStoragePort) *StatImageUseCase {
	return &StatImageUseCase{images: images}
}

func (uc *StatImageUseCase) Execute(ctx context.Context, storedName string) (bool, error) {
	exists, err := uc.images.Exists(ctx, storedName)
	if err != nil {
		return false, fmt.Errorf("failed to stat image: %w", err)
	}
	return exists, nil
}
