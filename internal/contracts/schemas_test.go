package contracts

import (
	"encoding/json"
	"errors"
	"testing"

	"apartment-listing-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateBody() map[string]interface{} {
	return map[string]interface{}{
		"name":          "Cozy loft",
		"unitNumber":    "12B",
		"project":       "Skyline Towers",
		"description":   "Bright corner unit",
		"price":         1250.50,
		"contactNumber": "+375291234567",
		"imageUrls":     []string{"/files/a.jpg"},
	}
}

func marshalBody(t *testing.T, body map[string]interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return raw
}

func validationErrorFor(t *testing.T, body map[string]interface{}) *domain.ValidationError {
	t.Helper()
	err := ValidateApartmentCreate(marshalBody(t, body))
	require.Error(t, err)

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr), "expected *domain.ValidationError, got %T", err)
	return validationErr
}

func TestValidateApartmentCreate_AcceptsValidBody(t *testing.T) {
	err := ValidateApartmentCreate(marshalBody(t, validCreateBody()))
	assert.NoError(t, err)
}

func TestValidateApartmentCreate_RejectsMalformedJSON(t *testing.T) {
	err := ValidateApartmentCreate([]byte(`{"name": `))

	var validationErr *domain.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "request body is not valid JSON", validationErr.Message)
}

func TestValidateApartmentCreate_NegativePriceReportsPriceField(t *testing.T) {
	body := validCreateBody()
	body["price"] = -5

	validationErr := validationErrorFor(t, body)

	assert.Contains(t, validationErr.Fields, "price")
}

func TestValidateApartmentCreate_ZeroPriceRejected(t *testing.T) {
	body := validCreateBody()
	body["price"] = 0

	validationErr := validationErrorFor(t, body)

	assert.Contains(t, validationErr.Fields, "price")
}

func TestValidateApartmentCreate_MissingRequiredFieldsReportedByName(t *testing.T) {
	body := validCreateBody()
	delete(body, "name")
	delete(body, "contactNumber")

	validationErr := validationErrorFor(t, body)

	assert.Contains(t, validationErr.Fields, "name")
	assert.Contains(t, validationErr.Fields, "contactNumber")
}

func TestValidateApartmentCreate_ContactNumberFormat(t *testing.T) {
	valid := []string{
		"+375171234567",
		"+375251234567",
		"+375291234567",
		"+375331234567",
		"+375441234567",
	}
	for _, number := range valid {
		body := validCreateBody()
		body["contactNumber"] = number
		assert.NoError(t, ValidateApartmentCreate(marshalBody(t, body)), number)
	}

	invalid := []string{
		"+375991234567", // неизвестный код оператора
		"375291234567",  // без плюса
		"+37529123456",  // слишком короткий
		"+3752912345678",
		"+7 999 123-45-67",
	}
	for _, number := range invalid {
		body := validCreateBody()
		body["contactNumber"] = number

		validationErr := validationErrorFor(t, body)
		assert.Contains(t, validationErr.Fields, "contactNumber", number)
	}
}

func TestValidateApartmentCreate_ImageCountBounds(t *testing.T) {
	body := validCreateBody()
	body["imageUrls"] = []string{}

	validationErr := validationErrorFor(t, body)
	assert.Contains(t, validationErr.Fields, "imageUrls")

	images := make([]string, 9)
	for i := range images {
		images[i] = "/files/x.jpg"
	}
	body["imageUrls"] = images

	validationErr = validationErrorFor(t, body)
	assert.Contains(t, validationErr.Fields, "imageUrls")

	images = images[:8]
	body["imageUrls"] = images
	assert.NoError(t, ValidateApartmentCreate(marshalBody(t, body)))
}

func TestValidateApartmentCreate_UnknownFieldRejected(t *testing.T) {
	body := validCreateBody()
	body["ownerNote"] = "call after 6pm"

	validationErr := validationErrorFor(t, body)
	assert.NotEmpty(t, validationErr.Fields)
}

func TestGenerateKeyFromPath(t *testing.T) {
	assert.Equal(t, "ApartmentCreateRequest/1.0.0", generateKeyFromPath("schemas/apartment-create/v1.json"))
	assert.Equal(t, "", generateKeyFromPath("schemas/malformed.json"))
}
