package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/opdss/excelcol/contracts/storage"
	"github.com/zeebo/errs"
)

type LocalConfig struct {
	Endpoint string `help:"访问地址" default:"http://localhost:8989/files" json:"endpoint"`
	Root     string `help:"根目录" default:"$ROOT/exports" json:"root"`
}

var _ storage.FileSystem = (*Local)(nil)

// Local 本地目录存储，Url 需要配合静态文件服务使用
type Local struct {
	root     string
	endpoint string
}

func NewLocal(config LocalConfig) (*Local, error) {
	if config.Root == "" {
		return nil, ErrStorage.New("please set local root")
	}
	return &Local{
		root:     config.Root,
		endpoint: strings.TrimSuffix(config.Endpoint, "/"),
	}, nil
}

func (r *Local) Delete(ctx context.Context, files ...string) error {
	for _, file := range files {
		if err := os.Remove(r.fullPath(file)); err != nil && !os.IsNotExist(err) {
			return ErrStorage.Wrap(err)
		}
	}
	return nil
}

func (r *Local) Exists(ctx context.Context, file string) bool {
	_, err := os.Stat(r.fullPath(file))
	return err == nil
}

func (r *Local) GetStream(ctx context.Context, file string) (io.ReadCloser, error) {
	f, err := os.Open(r.fullPath(file))
	if err != nil {
		return nil, ErrStorage.Wrap(err)
	}
	return f, nil
}

func (r *Local) PutStream(ctx context.Context, file string, rs io.Reader) (err error) {
	file = r.fullPath(file)
	if err = os.MkdirAll(filepath.Dir(file), os.ModePerm); err != nil {
		return ErrStorage.Wrap(err)
	}
	f, err := os.Create(file)
	if err != nil {
		return ErrStorage.Wrap(err)
	}
	defer func() {
		err = errs.Combine(err, ErrStorage.Wrap(f.Close()))
	}()
	if _, err = io.Copy(f, rs); err != nil {
		return ErrStorage.Wrap(err)
	}
	return nil
}

func (r *Local) Url(file string) string {
	return r.endpoint + "/" + validKey(filepath.ToSlash(file))
}

// Root 存储根目录
func (r *Local) Root() string {
	return r.root
}

func (r *Local) fullPath(path string) string {
	realPath := filepath.Clean("/" + path)
	return filepath.Join(r.root, realPath)
}
