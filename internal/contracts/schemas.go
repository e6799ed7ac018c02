package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"apartment-listing-service/internal/core/domain"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	// Сначала регистрируем все схемы как ресурсы, чтобы работали $ref
	// между ними, и только потом компилируем.
	err := fs.WalkDir(schemasFS, "schemas", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".json") {
			file, err := schemasFS.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()
			if err := compiler.AddResource(path, file); err != nil {
				log.Fatalf("failed to add schema resource %s: %v", path, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("error walking and adding schema resources: %v", err)
	}

	err = fs.WalkDir(schemasFS, "schemas", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".json") {
			schema, err := compiler.Compile(path)
			if err != nil {
				log.Printf("WARNING: could not compile schema %s: %v. Skipping.", path, err)
				return nil
			}

			key := generateKeyFromPath(path)
			compiledSchemas[key] = schema
		}
		return nil
	})
	if err != nil {
		log.Fatalf("error walking and compiling schemas: %v", err)
	}
}

// generateKeyFromPath преобразует путь вида "schemas/apartment-create/v1.json"
// в ключ вида "ApartmentCreateRequest/1.0.0".
func generateKeyFromPath(path string) string {
	trimmedPath := strings.TrimPrefix(path, "schemas/")
	trimmedPath = strings.TrimSuffix(trimmedPath, ".json")

	parts := strings.Split(trimmedPath, "/")
	if len(parts) != 2 {
		return ""
	}

	caser := cases.Title(language.English)

	var nameBuilder strings.Builder
	for _, p := range strings.Split(parts[0], "-") {
		nameBuilder.WriteString(caser.String(p))
	}
	nameBuilder.WriteString("Request")

	version := strings.Replace(parts[1], "v", "", 1) + ".0.0"

	return fmt.Sprintf("%s/%s", nameBuilder.String(), version)
}

// ValidateApartmentCreate проверяет тело запроса создания объявления.
// При нарушении схемы возвращается *domain.ValidationError с деревом
// ошибок по полям; прочие ошибки означают сбой самой валидации.
func ValidateApartmentCreate(body []byte) error {
	return validatePayload("ApartmentCreateRequest", "1.0.0", body)
}

func validatePayload(payloadType, version string, body []byte) error {
	key := fmt.Sprintf("%s/%s", payloadType, version)
	schema, ok := compiledSchemas[key]
	if !ok {
		return fmt.Errorf("schema for payload '%s' version '%s' not found", payloadType, version)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return &domain.ValidationError{
			Message: "request body is not valid JSON",
			Fields:  map[string][]string{},
		}
	}

	if err := schema.Validate(v); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return domain.NewValidationError(fieldErrors(ve))
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}

	return nil
}

// fieldErrors сплющивает дерево причин jsonschema в отчет
// "имя поля -> сообщения".
func fieldErrors(ve *jsonschema.ValidationError) map[string][]string {
	fields := make(map[string][]string)
	collectCauses(ve, fields)
	return fields
}

func collectCauses(ve *jsonschema.ValidationError, fields map[string][]string) {
	if len(ve.Causes) == 0 {
		addFieldError(ve, fields)
		return
	}
	for _, cause := range ve.Causes {
		collectCauses(cause, fields)
	}
}

func addFieldError(ve *jsonschema.ValidationError, fields map[string][]string) {
	// Нарушение required репортится на корне объекта; достаем имена
	// недостающих полей из сообщения, чтобы отчет остался пополевым.
	if strings.HasSuffix(ve.KeywordLocation, "/required") {
		names := quotedNames(ve.Message)
		if len(names) > 0 {
			for _, name := range names {
				fields[name] = append(fields[name], "is required")
			}
			return
		}
	}

	name := fieldNameFromLocation(ve.InstanceLocation)
	fields[name] = append(fields[name], ve.Message)
}

// fieldNameFromLocation переводит JSON pointer в имя поля верхнего уровня:
// "/imageUrls/3" -> "imageUrls", "" -> "_request".
func fieldNameFromLocation(loc string) string {
	loc = strings.TrimPrefix(loc, "/")
	if loc == "" {
		return "_request"
	}
	if idx := strings.IndexByte(loc, '/'); idx >= 0 {
		return loc[:idx]
	}
	return loc
}

// quotedNames достает из сообщения имена в одинарных или двойных кавычках.
func quotedNames(msg string) []string {
	var names []string
	var current strings.Builder
	var quote byte
	inQuote := false

	for i := 0; i < len(msg); i++ {
		c := msg[i]
		switch {
		case !inQuote && (c == '\'' || c == '"'):
			inQuote = true
			quote = c
			current.Reset()
		case inQuote && c == quote:
			inQuote = false
			if current.Len() > 0 {
				names = append(names, current.String())
			}
		case inQuote:
			current.WriteByte(c)
		}
	}
	return names
}
