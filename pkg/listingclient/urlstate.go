package listingclient

import (
	"net/url"
	"strconv"
)

const (
	// DefaultPage - страница, с которой начинается просмотр.
	DefaultPage = 1
	// DefaultLimit - размер страницы, если параметр не задан или некорректен.
	DefaultLimit = 10
	// MaxLimit - верхняя граница размера страницы.
	MaxLimit = 100
)

// Query - параметры запроса списка: страница, размер страницы и строка поиска.
// Это же состояние сериализуется в адресную строку.
type Query struct {
	Page   int
	Limit  int
	Search string
}

// ParseQuery читает параметры из query-значений адресной строки.
// Мусорные значения приводятся к дефолтам, а не отклоняются.
func ParseQuery(values url.Values) Query {
	page, _ := strconv.Atoi(values.Get("page"))
	if page < 1 {
		page = DefaultPage
	}

	limit, _ := strconv.Atoi(values.Get("limit"))
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	return Query{
		Page:   page,
		Limit:  limit,
		Search: values.Get("search"),
	}
}

// Values сериализует параметры обратно в query-значения.
// Пустой поиск в адресную строку не попадает.
func (q Query) Values() url.Values {
	values := url.Values{}
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("limit", strconv.Itoa(q.Limit))
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	return values
}
