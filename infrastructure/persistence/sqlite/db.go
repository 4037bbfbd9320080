package sqlite

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	apperrors "nexusboard/pkg/errors"
)

// Open opens (or creates) the database file and migrates the schema.
// Use ":memory:" for tests.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, apperrors.NewStorageError("open database", err)
	}

	if err := db.AutoMigrate(
		&User{},
		&Project{},
		&ProjectState{},
		&UploadedFile{},
		&FileImport{},
		&Post{},
		&Like{},
		&Comment{},
	); err != nil {
		return nil, apperrors.NewStorageError("migrate schema", err)
	}
	return db, nil
}
