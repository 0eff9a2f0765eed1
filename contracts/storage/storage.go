package storage

import (
	"context"
	"io"

	"github.com/opdss/excelcol/contracts/excel"
)

// FileSystem 导出文件上传使用的存储
type FileSystem interface {
	excel.FileStorage
	// Delete deletes the given file(s).
	Delete(ctx context.Context, file ...string) error
	// Exists determines if a file exists.
	Exists(ctx context.Context, file string) bool
	// GetStream reads the contents of a file.
	GetStream(ctx context.Context, file string) (io.ReadCloser, error)
}
