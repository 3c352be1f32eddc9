package kv

import (
	_ "github.com/go-sql-driver/mysql"
)

var mysqlDialect = dialect{
	driver: "mysql",
	setup: []string{
		"CREATE TABLE IF NOT EXISTS kv (\n" +
			"\t`key`      VARCHAR(255) PRIMARY KEY,\n" +
			"\tvalue      LONGBLOB NOT NULL,\n" +
			"\tupdated_at VARCHAR(40) NOT NULL\n" +
			")",
	},
	upsert: "INSERT INTO kv (`key`, value, updated_at) VALUES (?, ?, ?)\n" +
		"ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = VALUES(updated_at)",
}

// OpenMySQL connects to a MySQL server. dsn uses the go-sql-driver format,
// e.g. "user:pass@tcp(127.0.0.1:3306)/daily".
func OpenMySQL(dsn string) (*SQLStore, error) {
	return openSQL(mysqlDialect, dsn, 4)
}
