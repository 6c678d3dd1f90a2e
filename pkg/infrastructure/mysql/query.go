package mysql

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"crm/pkg/common/projection"
)

// listQuery maps a projection descriptor onto SQL. columns translates field
// names into column expressions valid in from.
type listQuery struct {
	selectColumns string
	from          string
	columns       map[string]string
	key           string
}

var comparisons = map[projection.Operator]string{
	projection.Exact: "=",
	projection.GT:    ">",
	projection.GTE:   ">=",
	projection.LT:    "<",
	projection.LTE:   "<=",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (q listQuery) where(conditions []projection.Condition) (string, []any, error) {
	if len(conditions) == 0 {
		return "", nil, nil
	}

	clauses := make([]string, 0, len(conditions))
	args := make([]any, 0, len(conditions))
	for _, cond := range conditions {
		column, ok := q.columns[cond.Field]
		if !ok {
			return "", nil, errors.Wrapf(projection.ErrInvalidFilter, "unknown field %q", cond.Field)
		}

		switch cond.Operator {
		case projection.IContains, projection.IStartsWith:
			value, _ := cond.Value.(string)
			pattern := likeEscaper.Replace(strings.ToLower(value)) + "%"
			if cond.Operator == projection.IContains {
				pattern = "%" + pattern
			}
			clauses = append(clauses, "LOWER("+column+") LIKE ?")
			args = append(args, pattern)
		default:
			op, ok := comparisons[cond.Operator]
			if !ok {
				return "", nil, errors.Wrapf(projection.ErrInvalidFilter, "unsupported operator %q", cond.Operator)
			}
			clauses = append(clauses, column+" "+op+" ?")
			args = append(args, cond.Value)
		}
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func (q listQuery) orderBy(sorts []projection.Sort) string {
	parts := make([]string, 0, len(sorts)+1)
	for _, s := range sorts {
		column, ok := q.columns[s.Field]
		if !ok {
			continue
		}
		if s.Desc {
			column += " DESC"
		}
		parts = append(parts, column)
	}
	parts = append(parts, q.key)
	return " ORDER BY " + strings.Join(parts, ", ")
}

// selectPage counts the matching rows and loads one window of them into rows.
func selectPage[R any](
	ctx context.Context,
	db sqlx.QueryerContext,
	q listQuery,
	filter projection.Filter,
	defaultOrder []projection.Sort,
) ([]R, int, error) {
	where, args, err := q.where(filter.Conditions)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := sqlx.GetContext(ctx, db, &total, "SELECT COUNT(*)"+q.from+where, args...); err != nil {
		return nil, 0, errors.WithStack(err)
	}

	var rows []R
	if filter.First <= 0 || filter.Offset < 0 || filter.Offset >= total {
		return rows, total, nil
	}

	query := "SELECT " + q.selectColumns + q.from + where + q.orderBy(filter.OrderOrDefault(defaultOrder)) + " LIMIT ? OFFSET ?"
	args = append(args, filter.First, filter.Offset)
	if err := sqlx.SelectContext(ctx, db, &rows, query, args...); err != nil {
		return nil, 0, errors.WithStack(err)
	}
	return rows, total, nil
}
