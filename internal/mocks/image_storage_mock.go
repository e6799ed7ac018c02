package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// ImageStorageMock - testify/mock для port.ImageStoragePort.
type ImageStorageMock struct{ mock.Mock }

func (m *ImageStorageMock) Save(ctx context.Context, originalName string, data io.Reader) (string, error) {
	args := m.Called(ctx, originalName, data)
	return args.String(0), args.Error(1)
}

func (m *ImageStorageMock) Open(ctx context.Context, storedName string) (io.ReadCloser, int64, error) {
	args := m.Called(ctx, storedName)
	var reader io.ReadCloser
	if v := args.Get(0); v != nil {
		reader = v.(io.ReadCloser)
	}
	var size int64
	if v := args.Get(1); v != nil {
		size = v.(int64)
	}
	return reader, size, args.Error(2)
}

func (m *ImageStorageMock) Exists(ctx context.Context, storedName string) (bool, error) {
	args := m.Called(ctx, storedName)
	return args.Bool(0), args.Error(1)
}
