package storage

import (
	"context"
	"io"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/opdss/excelcol/contracts/storage"
)

type OssConfig struct {
	AccessKeyId     string `help:"accessKeyId" default:"" json:"access_key_id"`
	AccessKeySecret string `help:"accessKeySecret" default:"" json:"access_key_secret"`
	Bucket          string `help:"存储桶" default:"" json:"bucket"`
	Url             string `help:"加速访问地址" default:"" json:"url"`
	Endpoint        string `help:"api入口" default:"" json:"endpoint"`
}

var _ storage.FileSystem = (*Oss)(nil)

/*
 * Oss OSS
 * Document: https://help.aliyun.com/document_detail/32144.html
 */
type Oss struct {
	config         OssConfig
	bucketInstance *oss.Bucket
}

func NewOss(config OssConfig) (*Oss, error) {
	if config.AccessKeyId == "" || config.AccessKeySecret == "" || config.Bucket == "" || config.Endpoint == "" {
		return nil, ErrStorage.New("please set oss configuration")
	}

	client, err := oss.New(config.Endpoint, config.AccessKeyId, config.AccessKeySecret)
	if err != nil {
		return nil, ErrStorage.Wrap(err)
	}

	bucketInstance, err := client.Bucket(config.Bucket)
	if err != nil {
		return nil, ErrStorage.Wrap(err)
	}

	if config.Url == "" {
		config.Url = config.Endpoint
	}
	config.Url = strings.TrimSuffix(config.Url, "/")
	return &Oss{
		config:         config,
		bucketInstance: bucketInstance,
	}, nil
}

func (r *Oss) Delete(ctx context.Context, files ...string) error {
	keys := make([]string, len(files))
	for i := range files {
		keys[i] = validKey(files[i])
	}
	_, err := r.bucketInstance.DeleteObjects(keys, oss.WithContext(ctx), oss.DeleteObjectsQuiet(true))
	return ErrStorage.Wrap(err)
}

func (r *Oss) Exists(ctx context.Context, file string) bool {
	exist, err := r.bucketInstance.IsObjectExist(validKey(file), oss.WithContext(ctx))
	if err != nil {
		return false
	}
	return exist
}

func (r *Oss) GetStream(ctx context.Context, file string) (io.ReadCloser, error) {
	rc, err := r.bucketInstance.GetObject(validKey(file), oss.WithContext(ctx))
	if err != nil {
		return nil, ErrStorage.Wrap(err)
	}
	return rc, nil
}

func (r *Oss) PutStream(ctx context.Context, file string, rs io.Reader) error {
	contentType, body, err := sniff(rs)
	if err != nil {
		return err
	}
	return ErrStorage.Wrap(r.bucketInstance.PutObject(validKey(file), body, oss.WithContext(ctx), oss.ContentType(contentType)))
}

func (r *Oss) Url(file string) string {
	return r.config.Url + "/" + validKey(file)
}
