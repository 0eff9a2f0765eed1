package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// getLogInterface 把gorm日志输出到zap，level为空时不打印
func getLogInterface(zapLog *zap.Logger, level string) logger.Interface {
	var logLevel logger.LogLevel
	switch level {
	case "error":
		logLevel = logger.Error
	case "warn":
		logLevel = logger.Warn
	case "info":
		logLevel = logger.Info
	default:
		logLevel = logger.Silent
	}
	return logger.New(zap.NewStdLog(zapLog.Named("gorm")), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logLevel,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
