package listingclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchListings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/apartments", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "8", r.URL.Query().Get("limit"))
		assert.Equal(t, "sky", r.URL.Query().Get("search"))
		assert.NotEmpty(t, r.Header.Get("X-Trace-ID"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"apartments": []map[string]interface{}{
				{"id": "a1", "name": "Loft", "unitNumber": "12B", "project": "Skyline Towers", "price": 1200.0},
			},
			"pagination": map[string]interface{}{
				"currentPage": 2, "totalPages": 3, "totalCount": 17,
				"hasNextPage": true, "hasPrevPage": true, "limit": 8,
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	page, err := client.FetchListings(context.Background(), Query{Page: 2, Limit: 8, Search: "sky"})

	require.NoError(t, err)
	require.Len(t, page.Apartments, 1)
	assert.Equal(t, "Skyline Towers", page.Apartments[0].Project)
	assert.Equal(t, 17, page.Pagination.TotalCount)
	assert.True(t, page.Pagination.HasPrevPage)
}

func TestClient_FetchListingsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Failed to retrieve apartments"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.FetchListings(context.Background(), Query{Page: 1, Limit: 10})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestClient_GetApartmentNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Apartment not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.GetApartment(context.Background(), "missing-id")

	require.ErrorIs(t, err, ErrNotFound)
}

func TestClient_CreateApartment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/apartments", r.URL.Path)

		var req NewApartment
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Loft", req.Name)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Apartment{ID: "new-id", Name: req.Name, Price: req.Price})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	created, err := client.CreateApartment(context.Background(), NewApartment{
		Name: "Loft", UnitNumber: "12B", Project: "Skyline Towers",
		Price: 1200, ContactNumber: "+375291234567", ImageURLs: []string{"/files/x.jpg"},
	})

	require.NoError(t, err)
	assert.Equal(t, "new-id", created.ID)
}

func TestClient_CreateApartmentValidationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"validation failed","errors":{"price":["must be greater than 0"]}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.CreateApartment(context.Background(), NewApartment{Price: -5})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "validation failed", validationErr.Message)
	require.Contains(t, validationErr.Fields, "price")
	assert.Equal(t, []string{"must be greater than 0"}, validationErr.Fields["price"])
}

func TestClient_UploadImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(32<<20))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "kitchen.jpg", header.Filename)
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "jpeg-bytes", string(content))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"imageUrl":"/files/abc_kitchen.jpg"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	imageURL, err := client.UploadImage(context.Background(), "kitchen.jpg", strings.NewReader("jpeg-bytes"))

	require.NoError(t, err)
	assert.Equal(t, "/files/abc_kitchen.jpg", imageURL)
}

func TestClient_UploadImageServerRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Form field 'image' is required"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.UploadImage(context.Background(), "kitchen.jpg", strings.NewReader("x"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
