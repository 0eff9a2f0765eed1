package storage

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/zeebo/errs"
)

var ErrStorage = errs.Class("storage")

// MimeType 根据内容判断文件类型，xlsx 会被识别为对应的 office 类型
func MimeType(content []byte) string {
	return mimetype.Detect(content).String()
}

// sniffLimit 判断类型读取的字节数
const sniffLimit = 3072

// sniff 读取rs开头的内容判断类型，返回的reader包含完整内容
func sniff(rs io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLimit)
	n, err := io.ReadFull(rs, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", nil, ErrStorage.Wrap(err)
	}
	head = head[:n]
	return MimeType(head), io.MultiReader(bytes.NewReader(head), rs), nil
}

func validKey(file string) string {
	realPath := strings.TrimPrefix(file, "./")
	return strings.TrimPrefix(realPath, "/")
}
