package sqlstore

import (
	"fmt"
	"sort"

	// SQL drivers

	_ "github.com/go-sql-driver/mysql"  // MariaDB & MySQL
	_ "github.com/jackc/pgx/v5/stdlib"  // Postgres, via pgx
	_ "github.com/lib/pq"               // Postgres
	_ "github.com/microsoft/go-mssqldb" // SQL Server
	_ "github.com/nakagami/firebirdsql" // Firebird
	_ "github.com/sijms/go-ora"         // Oracle
	_ "modernc.org/sqlite"              // SQLite
)

// What we need to know about a database to keep the knowledge base in it. The table
// is always kb_items(name, seq, val); val holds one encoded value.
type dialect struct {
	driver      string
	createTable string
	placeholder func(n int) string
}

func question(int) string { return "?" }

var (
	dialects = map[string]dialect{
		"Firebird SQL": {
			driver: "firebirdsql",
			createTable: `EXECUTE BLOCK AS BEGIN
  IF (NOT EXISTS(SELECT 1 FROM RDB$RELATIONS WHERE RDB$RELATION_NAME = 'KB_ITEMS')) THEN
    EXECUTE STATEMENT 'CREATE TABLE kb_items (name VARCHAR(255) NOT NULL, seq INTEGER NOT NULL, val BLOB SUB_TYPE TEXT NOT NULL)';
END`,
			placeholder: question,
		},
		"MariaDB": {
			driver:      "mysql",
			createTable: `CREATE TABLE IF NOT EXISTS kb_items (name VARCHAR(255) NOT NULL, seq INTEGER NOT NULL, val TEXT NOT NULL)`,
			placeholder: question,
		},
		"MySQL": {
			driver:      "mysql",
			createTable: `CREATE TABLE IF NOT EXISTS kb_items (name VARCHAR(255) NOT NULL, seq INTEGER NOT NULL, val TEXT NOT NULL)`,
			placeholder: question,
		},
		"Oracle": {
			driver: "oracle",
			createTable: `BEGIN
  EXECUTE IMMEDIATE 'CREATE TABLE kb_items (name VARCHAR2(255) NOT NULL, seq NUMBER(10) NOT NULL, val CLOB NOT NULL)';
EXCEPTION WHEN OTHERS THEN
  IF SQLCODE != -955 THEN RAISE; END IF;
END;`,
			placeholder: func(n int) string { return fmt.Sprintf(":%d", n) },
		},
		"Postgres": {
			driver:      "postgres",
			createTable: `CREATE TABLE IF NOT EXISTS kb_items (name VARCHAR(255) NOT NULL, seq INTEGER NOT NULL, val TEXT NOT NULL)`,
			placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		},
		"Postgres (pgx)": {
			driver:      "pgx",
			createTable: `CREATE TABLE IF NOT EXISTS kb_items (name VARCHAR(255) NOT NULL, seq INTEGER NOT NULL, val TEXT NOT NULL)`,
			placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		},
		"SQL Server": {
			driver: "sqlserver",
			createTable: `IF OBJECT_ID('kb_items', 'U') IS NULL
  CREATE TABLE kb_items (name NVARCHAR(255) NOT NULL, seq INT NOT NULL, val NVARCHAR(MAX) NOT NULL)`,
			placeholder: func(n int) string { return fmt.Sprintf("@p%d", n) },
		},
		"SQLite": {
			driver:      "sqlite",
			createTable: `CREATE TABLE IF NOT EXISTS kb_items (name TEXT NOT NULL, seq INTEGER NOT NULL, val TEXT NOT NULL)`,
			placeholder: question,
		},
	}
)

// Drivers lists the databases the knowledge base can be kept in, as named in config.
func Drivers() []string {
	dr := []string{}
	for k := range dialects {
		dr = append(dr, k)
	}
	sort.Strings(dr)
	return dr
}

// lookupDialect accepts either the name of a database or the name of its driver.
func lookupDialect(name string) (dialect, bool) {
	if d, ok := dialects[name]; ok {
		return d, true
	}
	for _, d := range dialects {
		if d.driver == name {
			return d, true
		}
	}
	return dialect{}, false
}
