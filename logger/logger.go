package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level      string `help:"日志级别,可选[debug|info|warn|error]" releaseDefault:"info" default:"debug"`
	Filename   string `help:"日志文件,为空时只输出到控制台" default:""`
	MaxSize    int    `help:"单个日志文件大小(MB)" default:"100"`
	MaxBackups int    `help:"保留的旧日志文件数量" default:"7"`
	MaxAge     int    `help:"旧日志保留天数" default:"30"`
	Compress   bool   `help:"是否压缩旧日志" default:"false"`
	Json       bool   `help:"是否以json格式输出" default:"false"`
}

// NewLogger 根据配置创建日志，配置了文件时同时写入控制台和按大小切割的文件
func NewLogger(conf Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(conf.Level)
	if err != nil {
		return nil, err
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if conf.Json {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level),
	}
	if conf.Filename != "" {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(&lumberjack.Logger{
			Filename:   conf.Filename,
			MaxSize:    conf.MaxSize,
			MaxBackups: conf.MaxBackups,
			MaxAge:     conf.MaxAge,
			Compress:   conf.Compress,
		}), level))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}
