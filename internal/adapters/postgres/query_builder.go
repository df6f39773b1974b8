package postgres

import (
	"fmt"
	"strings"

	"moderation-console/internal/core/domain"
)

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argId      int
}

func newQueryBuilder() *queryBuilder {
	return &queryBuilder{
		argId: 1,
		args:  make([]interface{}, 0),
	}
}

func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argId))
	qb.args = append(qb.args, arg)
	qb.argId++
}

// AddFloatFilter добавляет границы диапазона, nil-граница пропускается.
func (qb *queryBuilder) AddFloatFilter(fieldName string, min *float64, max *float64) {
	if min != nil {
		qb.addCondition("%s >= $%d", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("%s <= $%d", fieldName, *max)
	}
}

// build возвращает WHERE-часть и аргументы.
func (qb *queryBuilder) build() (string, []interface{}) {
	whereClause := ""
	if len(qb.conditions) > 0 {
		whereClause = "WHERE " + strings.Join(qb.conditions, " AND ")
	}
	return whereClause, qb.args
}

// applyFilters разбирает состояние фильтров в условия выборки объявлений.
func applyFilters(filter domain.FilterState) (string, []interface{}) {
	qb := newQueryBuilder()

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		qb.addCondition("%s = ANY($%d)", "a.status", statuses)
	}
	if filter.CategoryID != nil {
		qb.addCondition("%s = $%d", "a.category_id", *filter.CategoryID)
	}
	qb.AddFloatFilter("a.price", filter.MinPrice, filter.MaxPrice)
	if filter.Search != "" {
		qb.addCondition("%s ILIKE $%d", "a.title", "%"+escapeLike(filter.Search)+"%")
	}

	return qb.build()
}

// orderClause строится только из закрытых значений, пользовательский ввод сюда не попадает.
func orderClause(by domain.SortBy, order domain.SortOrder) string {
	column := "a.created_at"
	switch by {
	case domain.SortByPrice:
		column = "a.price"
	case domain.SortByPriority:
		column = "CASE a.priority WHEN 'urgent' THEN 1 ELSE 0 END"
	}
	direction := "DESC"
	if order == domain.SortAsc {
		direction = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s, a.id ASC", column, direction)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
