package listingclient

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// MaxAttachedImages - максимум изображений у одного объявления.
const MaxAttachedImages = 8

// ErrTooManyImages возвращается, когда партия файлов не влезает в лимит.
var ErrTooManyImages = errors.New("too many images attached")

// ImageUploader загружает один файл и возвращает его URL. Реализуется Client'ом.
type ImageUploader interface {
	UploadImage(ctx context.Context, filename string, data io.Reader) (string, error)
}

// UploadFile - один файл для загрузки.
type UploadFile struct {
	Name string
	Data io.Reader
}

// AttachmentSet копит URL'ы загруженных изображений для будущего объявления
// и следит за лимитом. Партия сверх лимита отклоняется целиком до каких-либо
// сетевых вызовов.
type AttachmentSet struct {
	urls []string
}

// Count возвращает число уже прикрепленных изображений.
func (s *AttachmentSet) Count() int {
	return len(s.urls)
}

// CanAdd сообщает, влезет ли еще n изображений.
func (s *AttachmentSet) CanAdd(n int) bool {
	return n >= 0 && len(s.urls)+n <= MaxAttachedImages
}

// URLs возвращает копию списка прикрепленных URL'ов.
func (s *AttachmentSet) URLs() []string {
	return append([]string(nil), s.urls...)
}

// Remove убирает URL из набора.
func (s *AttachmentSet) Remove(url string) {
	for i, existing := range s.urls {
		if existing == url {
			s.urls = append(s.urls[:i], s.urls[i+1:]...)
			return
		}
	}
}

// UploadBatch загружает партию файлов и прикрепляет их URL'ы.
// Лимит проверяется до первого сетевого вызова, частичная загрузка
// сверх лимита невозможна.
func (s *AttachmentSet) UploadBatch(ctx context.Context, uploader ImageUploader, files []UploadFile) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if !s.CanAdd(len(files)) {
		return nil, fmt.Errorf("cannot attach %d images to %d already attached (limit %d): %w",
			len(files), len(s.urls), MaxAttachedImages, ErrTooManyImages)
	}

	uploaded := make([]string, 0, len(files))
	for _, file := range files {
		imageURL, err := uploader.UploadImage(ctx, file.Name, file.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to upload %q: %w", file.Name, err)
		}
		uploaded = append(uploaded, imageURL)
	}

	s.urls = append(s.urls, uploaded...)
	return uploaded, nil
}
