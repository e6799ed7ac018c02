package usecases_port

import (
	"context"
	"io"
)

type SaveImageUseCase interface {
	Execute(ctx context.Context, originalName string, data io.Reader) (string, error)
}

type GetImageUseCase interface {
	Execute(ctx context.Context, storedName string) (io.ReadCloser, int64, error)
}

type StatImageUseCase interface {
	Execute(ctx context.Context, storedName string) (bool, error)
}
