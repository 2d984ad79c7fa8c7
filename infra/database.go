package infra

import (
	"errors"
	"strings"
	"time"

	"github.com/kbhub/txledger/infra/repository"
	"github.com/kbhub/txledger/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqliteScheme = "sqlite://"

// NewDBConnection opens the configured database. URLs starting with
// sqlite:// or file: use SQLite; everything else is treated as a Postgres DSN.
func NewDBConnection(
	cnf *config.DB,
	appEnv string,
) (*gorm.DB, error) {
	databaseUrl := cnf.Url
	if databaseUrl == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	var logMode logger.LogLevel
	if appEnv == "development" {
		logMode = logger.Info
	} else {
		logMode = logger.Silent
	}

	dialector, isSQLite := openDialector(databaseUrl)
	connection, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	if isSQLite {
		// SQLite serializes writers; a single connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cnf.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cnf.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cnf.ConnMaxLifetime)
	}

	if cnf.AutoMigrate {
		if err := connection.AutoMigrate(repository.Models()...); err != nil {
			return nil, err
		}
	}

	return connection, nil
}

func openDialector(url string) (gorm.Dialector, bool) {
	switch {
	case strings.HasPrefix(url, sqliteScheme):
		return sqlite.Open(strings.TrimPrefix(url, sqliteScheme)), true
	case strings.HasPrefix(url, "file:"):
		return sqlite.Open(url), true
	default:
		return postgres.Open(url), false
	}
}
