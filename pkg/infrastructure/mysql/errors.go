package mysql

import (
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
)

const (
	erDupEntry = 1062

	customerEmailIndex = "uniq_customer_email"
)

// isDuplicateEntry reports whether err is a unique key violation on index.
func isDuplicateEntry(err error, index string) bool {
	var mysqlErr *mysqldriver.MySQLError
	if !errors.As(err, &mysqlErr) || mysqlErr.Number != erDupEntry {
		return false
	}
	return strings.Contains(mysqlErr.Message, index)
}
