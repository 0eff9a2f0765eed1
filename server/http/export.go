package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opdss/excelcol/contracts/excel"
	"github.com/opdss/excelcol/excel/export"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
)

// ErrInvalidQuery 请求参数错误，导出接口返回400
var ErrInvalidQuery = errs.Class("invalid query")

const (
	FormatXlsx = "xlsx"
	FormatCsv  = "csv"
)

// Source 根据请求提供要导出的记录，参数错误时返回 ErrInvalidQuery
type Source[T any] func(c *gin.Context) (export.Iterator[T], error)

// ExportHandler 导出接口，query参数: format=xlsx|csv, name=下载文件名(不带后缀)
func ExportHandler[T any](logger *zap.Logger, schema *export.Schema[T], source Source[T], opts ...export.Option) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.DefaultQuery("name", export.DefaultFilename)
		format := c.DefaultQuery("format", FormatXlsx)
		if format != FormatXlsx && format != FormatCsv {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unsupported format: " + format})
			return
		}

		it, err := source(c)
		if err != nil {
			logger.Error("export source failed", zap.String("name", name), zap.Error(err))
			c.AbortWithStatusJSON(exportStatus(err), gin.H{"error": err.Error()})
			return
		}

		o := make([]export.Option, 0, len(opts)+2)
		o = append(o, opts...)
		o = append(o, export.WithFilename(name), export.WithLogger(logger))

		var exporter excel.Exporter
		if format == FormatCsv {
			exporter = export.NewCsv(schema, it, o...)
		} else {
			exporter = export.NewExcel(schema, it, o...)
		}

		n, err := exporter.ExportToResponse(c.Request.Context(), c.Writer)
		if err != nil {
			logger.Error("export failed", zap.String("name", name), zap.String("format", format), zap.Error(err))
			c.AbortWithStatusJSON(exportStatus(err), gin.H{"error": err.Error()})
			return
		}
		logger.Info("export finished", zap.String("name", name), zap.String("format", format), zap.Int64("bytes", n))
	}
}

func exportStatus(err error) int {
	switch {
	case ErrInvalidQuery.Has(err), errors.Is(err, export.ErrFilename):
		return http.StatusBadRequest
	case errors.Is(err, export.ErrMaximumLimit):
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}
