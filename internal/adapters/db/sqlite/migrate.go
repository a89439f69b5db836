package sqlite

import (
	"context"
	"embed"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations brings the target schema up to date. The legacy tables are
// not managed here; the importer creates them on demand.
func RunMigrations(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	goose.SetLogger(gooseLogger{logger.Sugar()})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return err
	}

	return nil
}

type gooseLogger struct {
	sugar *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) { l.sugar.Infof(format, v...) }
func (l gooseLogger) Fatalf(format string, v ...interface{}) { l.sugar.Fatalf(format, v...) }
