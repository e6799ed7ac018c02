package usecase

import (
	"context"
	"fmt"
	"io"

	"apartment-listing-service/internal/contextkeys"
	"apartment-listing-service/internal/core/port"
)

// SaveImageUseCase сохраняет загруженное изображение в файловое хранилище.
type SaveImageUseCase struct {
	images port.ImageStoragePort
}

func NewSaveImageUseCase(images port.ImageStoragePort) *SaveImageUseCase {
	return &SaveImageUseCase{images: images}
}

func (uc *SaveImageUseCase) Execute(ctx context.Context, originalName string, data io.Reader) (string, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":      "SaveImage",
		"original_name": originalName,
	})

	ucLogger.Info("Use case started", nil)

	storedName, err := uc.images.Save(ctx, originalName, data)
	if err != nil {
		ucLogger.Error("Image storage returned an error", err, nil)
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"stored_name": storedName})
	return storedName, nil
}
