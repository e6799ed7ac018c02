package port

import (
	"context"
	"io"
)

// ImageStoragePort - порт файлового хранилища изображений.
type ImageStoragePort interface {
	// Save сохраняет загруженный файл под санитизированным уникальным
	// именем и возвращает это имя.
	Save(ctx context.Context, originalName string, data io.Reader) (string, error)

	// Open открывает сохраненный файл на чтение и возвращает его размер.
	// Если файла нет - ошибка, оборачивающая domain.ErrImageNotFound.
	Open(ctx context.Context, storedName string) (io.ReadCloser, int64, error)

	// Exists проверяет наличие файла без его открытия.
	Exists(ctx context.Context, storedName string) (bool, error)
}
