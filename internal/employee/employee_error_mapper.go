package employee

import (
	"errors"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// errorFields expands driver errors into log fields. The error itself is
// never rewritten: callers surface the raw message.
func errorFields(err error) []zap.Field {
	fields := []zap.Field{zap.Error(err)}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		fields = append(fields,
			zap.String("sqlstate", pgErr.Code),
			zap.String("constraint", pgErr.ConstraintName),
			zap.String("table", pgErr.TableName),
		)
	}

	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		fields = append(fields, zap.Uint16("mysql_code", myErr.Number))
	}

	return fields
}
