package db

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	Mysql      = "mysql"
	Postgresql = "postgres"
	Sqlite3    = "sqlite3"
)

var ErrDB = errs.Class("DB")

type Config struct {
	Driver          string        `help:"数据库驱动,可选[mysql|postgres|sqlite3]" default:"sqlite3"`
	Dsn             string        `help:"数据库连接" default:"$ROOT/excelcol.db"`
	LogLevel        string        `help:"数据库日志打印级别,默认为空,可选[error|warn|info]" releaseDefault:"warn" default:"info"`
	MaxIdleConn     int           `help:"连接池中空闲连接的最大数量" default:"10"`
	MaxOpenConn     int           `help:"打开数据库连接的最大数量" default:"100"`
	ConnMaxLifetime time.Duration `help:"连接可复用的最大时间" default:"1h"`
	ConnMaxIdleTime time.Duration `help:"连接可以空闲的最长时间" default:"0"`
}

// Dialector 按驱动生成gorm方言
func (conf *Config) Dialector() (gorm.Dialector, error) {
	switch conf.Driver {
	case Mysql:
		// 导出按时间格式化，不需要datetime精度
		return mysql.New(mysql.Config{
			DSN:                      conf.Dsn,
			DisableDatetimePrecision: true,
		}), nil
	case Postgresql:
		return postgres.New(postgres.Config{DSN: conf.Dsn}), nil
	case Sqlite3:
		return sqlite.Open(conf.Dsn), nil
	}
	return nil, ErrDB.New("unknown database driver %q", conf.Driver)
}

// NewDB 打开数据库连接，设置连接池并检查连通性。
// sqlite 使用文件时会先创建所在目录。
func NewDB(ctx context.Context, zapLog *zap.Logger, cfg Config) (*gorm.DB, error) {
	dial, err := cfg.Dialector()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == Sqlite3 && sqliteFile(cfg.Dsn) {
		if err := os.MkdirAll(filepath.Dir(cfg.Dsn), 0o755); err != nil {
			return nil, ErrDB.Wrap(err)
		}
	}
	db, err := gorm.Open(dial, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		SkipDefaultTransaction:                   true,
		Logger:                                   getLogInterface(zapLog, cfg.LogLevel),
	})
	if err != nil {
		return nil, ErrDB.Wrap(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, ErrDB.Wrap(err)
	}
	if cfg.MaxIdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConn)
	}
	if cfg.MaxOpenConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConn)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, errs.Combine(ErrDB.Wrap(err), sqlDB.Close())
	}
	zapLog.Debug("database opened", zap.String("driver", cfg.Driver))
	return db, nil
}

func sqliteFile(dsn string) bool {
	return dsn != "" && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:")
}
