package testutils

import (
	"database/sql"
	"fmt"
	"sync/atomic"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"notebin-app/notebin/database"
)

// SetupMockDB sets up a mock database connection for SQL-level expectations
func SetupMockDB() (*database.Database, sqlmock.Sqlmock, func()) {
	var db *sql.DB
	var mock sqlmock.Sqlmock
	var err error

	db, mock, err = sqlmock.New()
	if err != nil {
		panic(err)
	}

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		panic(err)
	}

	mockDB := &database.Database{
		DB: gormDB,
	}

	close := func() {
		db.Close()
	}

	return mockDB, mock, close
}

var testDBCounter int64

// SetupTestDB opens a fresh in-memory sqlite database with all migrations
// applied. Each call gets its own database; shared cache keeps it alive
// across the pool's connections.
func SetupTestDB() (*database.Database, func()) {
	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)

	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	if err := database.RunMigrations(gormDB); err != nil {
		panic(err)
	}

	db := &database.Database{DB: gormDB}

	close := func() {
		db.Close()
	}

	return db, close
}
