package storage

import (
	"context"

	"github.com/opdss/excelcol/contracts/storage"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
	DriverOss   = "oss"
	DriverCos   = "cos"
)

// Config 导出文件存储配置，按 Driver 选择实现
type Config struct {
	Driver string `help:"存储驱动,可选[local|s3|oss|cos]" default:"local"`
	Local  LocalConfig
	S3     S3Config
	Oss    OssConfig
	Cos    CosConfig
}

func New(ctx context.Context, conf Config) (storage.FileSystem, error) {
	switch conf.Driver {
	case DriverLocal, "":
		return NewLocal(conf.Local)
	case DriverS3:
		return NewS3(ctx, conf.S3)
	case DriverOss:
		return NewOss(conf.Oss)
	case DriverCos:
		return NewCos(conf.Cos)
	default:
		return nil, ErrStorage.New("unknown storage driver %q", conf.Driver)
	}
}
