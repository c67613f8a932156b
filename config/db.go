package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens the export database. A "mysql://" DSN selects MySQL, anything
// else is treated as a SQLite path (":memory:" included).
func NewDB(dsn, gormLog string, log *zap.Logger) (*gorm.DB, error) {
	if log == nil {
		log = zap.NewNop()
	}

	logMode := logger.Warn
	switch gormLog {
	case "off", "":
		logMode = logger.Silent
	case "info":
		logMode = logger.Info
	}

	gormLogger := logger.New(
		gormWriter{log.Sugar()},
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logMode,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "mysql://") {
		dialector = mysql.Open(mysqlDSN(strings.TrimPrefix(dsn, "mysql://")))
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open export database: %w", err)
	}
	return db, nil
}

// mysqlDSN adds the options the snapshot models rely on.
func mysqlDSN(dsn string) string {
	if strings.Contains(dsn, "parseTime=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "parseTime=true&charset=utf8mb4&loc=UTC"
}

// gormWriter routes GORM's Printf-style logger into zap.
type gormWriter struct {
	log *zap.SugaredLogger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Debugf(format, args...)
}
