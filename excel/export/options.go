package export

import (
	"go.uber.org/zap"
)

type Option func(opt *options)

// WithMaxRows 最大数据行数，超过会报异常
func WithMaxRows(n int) Option {
	return func(opt *options) {
		if n > 0 && n < MaxRows {
			opt.maxRows = n
		}
	}
}

// WithFilename 设置导出文件名,不用加后缀，会自动加
func WithFilename(filename string) Option {
	return func(opt *options) {
		opt.filename = filename
	}
}

// WithSheetName 设置工作表名称
func WithSheetName(name string) Option {
	return func(opt *options) {
		if name != "" {
			opt.sheetName = name
		}
	}
}

// WithColWidth 设置声明列的宽度，导出excel生效
func WithColWidth(w float64) Option {
	return func(opt *options) {
		if w > 0 {
			opt.colWidth = w
		}
	}
}

// WithRowNumberTitle 设置行号列的表头
func WithRowNumberTitle(title string) Option {
	return func(opt *options) {
		opt.rowNumberTitle = title
	}
}

// WithLogger 设置日志
func WithLogger(logger *zap.Logger) Option {
	return func(opt *options) {
		if logger != nil {
			opt.logger = logger
		}
	}
}

type options struct {
	maxRows        int     //导出最大数量，避免数据提供商出错无限数据
	filename       string  //文件名，不要加后缀，会自动加
	sheetName      string  //工作表名称
	colWidth       float64 //声明列的宽度
	rowNumberTitle string  //行号列表头
	logger         *zap.Logger
}

func newOptions(opts ...Option) *options {
	o := &options{
		maxRows:        MaxRows,
		filename:       "",
		sheetName:      DefaultSheetName,
		colWidth:       DefaultColWidth,
		rowNumberTitle: DefaultRowNumberTitle,
		logger:         zap.NewNop(),
	}
	for i := range opts {
		opts[i](o)
	}
	return o
}
