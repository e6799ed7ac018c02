package listingclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound возвращается, когда сервер отвечает 404 на запрос по идентификатору.
var ErrNotFound = errors.New("apartment not found")

// Apartment - объявление в том виде, в котором его отдает API.
type Apartment struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	UnitNumber    string    `json:"unitNumber"`
	Project       string    `json:"project"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	ContactNumber string    `json:"contactNumber"`
	ImageURLs     []string  `json:"imageUrls"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewApartment - данные для создания объявления (без id и createdAt).
type NewApartment struct {
	Name          string   `json:"name"`
	UnitNumber    string   `json:"unitNumber"`
	Project       string   `json:"project"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	ContactNumber string   `json:"contactNumber"`
	ImageURLs     []string `json:"imageUrls"`
}

// PaginationInfo - метаданные пагинации из ответа API.
type PaginationInfo struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
	Limit       int  `json:"limit"`
}

// ListingsPage - одна страница списка объявлений.
type ListingsPage struct {
	Apartments []Apartment    `json:"apartments"`
	Pagination PaginationInfo `json:"pagination"`
}

// ValidationError - структурированный ответ 400 с ошибками по полям.
type ValidationError struct {
	Message string              `json:"message"`
	Fields  map[string][]string `json:"errors"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(names, ", "))
}

// Client - HTTP-клиент API объявлений.
type Client struct {
	baseURL    string // Например, "http://localhost:8080"
	httpClient *http.Client
	logger     Logger
}

// NewClient - конструктор. Нулевой логгер заменяется заглушкой.
func NewClient(baseURL string, logger Logger) *Client {
	if logger == nil {
		logger = NewNoopLogger()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// doRequest - внутренний хелпер для выполнения запросов
func (c *Client) doRequest(ctx context.Context, method, url, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Каждый запрос получает собственный trace_id для сквозной трассировки.
	req.Header.Set("X-Trace-ID", uuid.New().String())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// FetchListings запрашивает страницу списка: GET /apartments?page=&limit=&search=
func (c *Client) FetchListings(ctx context.Context, query Query) (*ListingsPage, error) {
	url := c.baseURL + "/apartments?" + query.Values().Encode()

	resp, err := c.doRequest(ctx, http.MethodGet, url, "", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("listing endpoint returned status %d: %s", resp.StatusCode, string(bodyBytes))
		c.logger.Error(err, "Received non-OK response from listing endpoint", "status_code", resp.StatusCode)
		return nil, err
	}

	var page ListingsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode listings response: %w", err)
	}

	c.logger.Debug("Fetched listings page",
		"page", page.Pagination.CurrentPage,
		"total_count", page.Pagination.TotalCount,
		"items_on_page", len(page.Apartments))

	return &page, nil
}

// GetApartment запрашивает одно объявление: GET /apartments/{id}
func (c *Client) GetApartment(ctx context.Context, id string) (*Apartment, error) {
	url := c.baseURL + "/apartments/" + id

	resp, err := c.doRequest(ctx, http.MethodGet, url, "", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch apartment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("apartment %s: %w", id, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("detail endpoint returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var apartment Apartment
	if err := json.NewDecoder(resp.Body).Decode(&apartment); err != nil {
		return nil, fmt.Errorf("failed to decode apartment response: %w", err)
	}
	return &apartment, nil
}

// CreateApartment создает объявление: POST /apartments.
// Ответ 400 разбирается в *ValidationError с ошибками по полям.
func (c *Client) CreateApartment(ctx context.Context, apartment NewApartment) (*Apartment, error) {
	reqBody, err := json.Marshal(apartment)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal create request: %w", err)
	}

	url := c.baseURL + "/apartments"
	resp, err := c.doRequest(ctx, http.MethodPost, url, "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create apartment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		var validationErr ValidationError
		if err := json.NewDecoder(resp.Body).Decode(&validationErr); err != nil {
			return nil, fmt.Errorf("creation endpoint returned status %d", resp.StatusCode)
		}
		c.logger.Warn("Apartment creation failed validation", "fields", len(validationErr.Fields))
		return nil, &validationErr
	}
	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("creation endpoint returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var created Apartment
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode created apartment: %w", err)
	}

	c.logger.Info("Apartment created", "apartment_id", created.ID)
	return &created, nil
}

// UploadImage загружает один файл: POST /upload, multipart-поле "image".
// Возвращает URL, по которому файл можно получить обратно.
func (c *Client) UploadImage(ctx context.Context, filename string, data io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart field: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return "", fmt.Errorf("failed to read image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	url := c.baseURL + "/upload"
	resp, err := c.doRequest(ctx, http.MethodPost, url, writer.FormDataContentType(), &body)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload endpoint returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var uploadResp struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploadResp); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}

	c.logger.Info("Image uploaded", "filename", filename, "image_url", uploadResp.ImageURL)
	return uploadResp.ImageURL, nil
}
