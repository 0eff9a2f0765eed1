package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/opdss/excelcol/contracts/excel"
	contractsIterator "github.com/opdss/excelcol/contracts/iterator"
)

// Iterator 导出数据来源
type Iterator[T any] contractsIterator.Iterator[T]

// ContentDisposition 附件形式下载的响应头，文件名做url编码
func ContentDisposition(filename, suffix string) (string, error) {
	if filename == "" {
		filename = DefaultFilename
	}
	if !utf8.ValidString(filename) {
		return "", Error.Wrap(fmt.Errorf("%w: %q is not valid utf-8", ErrFilename, filename))
	}
	return "attachment;filename=" + url.QueryEscape(filename) + "." + suffix, nil
}

// getFilename 生成本地导出文件路径
func getFilename(filename string, suf string) string {
	tmp := os.TempDir()
	if filename == "" {
		return path.Join(tmp,
			fmt.Sprintf("export_%s_%s.%s",
				time.Now().Format("20060102_150405"),
				uuid.NewString()[:8],
				suf))
	}
	if filename[0] == os.PathSeparator {
		return fmt.Sprintf("%s.%s", filename, suf)
	}
	return fmt.Sprintf("%s.%s", path.Join(tmp, filename), suf)
}

// getFileKey 生成文件存储使用的key
func getFileKey(filename string, suf string) string {
	if filename == "" {
		filename = DefaultFilename
	}
	return fmt.Sprintf("%s_%s.%s", path.Base(filename), uuid.NewString(), suf)
}

// putStorage 把已生成的内容上传到文件存储，返回下载地址
func putStorage(ctx context.Context, fs excel.FileStorage, fileKey string, content *bytes.Buffer) (string, error) {
	if err := fs.PutStream(ctx, fileKey, content); err != nil {
		return "", Error.Wrap(err)
	}
	return fs.Url(fileKey), nil
}

// writeResponse 设置下载响应头并写入内容
func writeResponse(w http.ResponseWriter, contentType, disposition string, content io.WriterTo) (int64, error) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", disposition)
	return content.WriteTo(w)
}
