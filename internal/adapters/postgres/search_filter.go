package postgres

import (
	"fmt"

	"apartment-listing-service/internal/core/domain"
)

// searchQueryBuilder собирает WHERE-часть запросов по объявлениям.
type searchQueryBuilder struct {
	conditions []string
	args       []interface{}
	argId      int
}

func newSearchQueryBuilder() *searchQueryBuilder {
	return &searchQueryBuilder{
		argId: 1,
		args:  make([]interface{}, 0),
	}
}

func (qb *searchQueryBuilder) addCondition(condition string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, qb.argId))
	qb.args = append(qb.args, arg)
	qb.argId++
}

func (qb *searchQueryBuilder) build() (string, []interface{}) {
	if len(qb.conditions) == 0 {
		return "", qb.args
	}
	whereClause := "WHERE " + qb.conditions[0]
	for _, cond := range qb.conditions[1:] {
		whereClause += " AND " + cond
	}
	return whereClause, qb.args
}

// applySearchFilter строит условие поиска: подстрока без учета регистра
// по name, unit_number и project одновременно (логическое ИЛИ).
func applySearchFilter(filter domain.SearchFilter) (string, []interface{}) {
	qb := newSearchQueryBuilder()

	if !filter.IsEmpty() {
		pattern := "%" + filter.Text + "%"
		qb.addCondition("(name ILIKE $%[1]d OR unit_number ILIKE $%[1]d OR project ILIKE $%[1]d)", pattern)
	}

	return qb.build()
}
