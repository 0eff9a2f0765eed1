package storage

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/opdss/excelcol/contracts/storage"
	"github.com/tencentyun/cos-go-sdk-v5"
)

type CosConfig struct {
	AccessKeyId     string `help:"accessKeyId" default:"" json:"access_key_id"`
	AccessKeySecret string `help:"accessKeySecret" default:"" json:"access_key_secret"`
	Endpoint        string `help:"存储桶地址" default:"" json:"endpoint"`
}

var _ storage.FileSystem = (*Cos)(nil)

type Cos struct {
	config   CosConfig
	instance *cos.Client
}

func NewCos(config CosConfig) (*Cos, error) {
	if config.AccessKeyId == "" || config.AccessKeySecret == "" || config.Endpoint == "" {
		return nil, ErrStorage.New("please set cos configuration")
	}

	u, err := url.Parse(config.Endpoint)
	if err != nil {
		return nil, ErrStorage.Wrap(err)
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: u}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  config.AccessKeyId,
			SecretKey: config.AccessKeySecret,
		},
	})
	return &Cos{
		config:   config,
		instance: client,
	}, nil
}

func (r *Cos) Delete(ctx context.Context, files ...string) error {
	obs := make([]cos.Object, 0, len(files))
	for _, v := range files {
		obs = append(obs, cos.Object{Key: validKey(v)})
	}
	_, _, err := r.instance.Object.DeleteMulti(ctx, &cos.ObjectDeleteMultiOptions{
		Objects: obs,
		Quiet:   true,
	})
	return ErrStorage.Wrap(err)
}

func (r *Cos) Exists(ctx context.Context, file string) bool {
	ok, err := r.instance.Object.IsExist(ctx, validKey(file))
	if err != nil {
		return false
	}
	return ok
}

func (r *Cos) GetStream(ctx context.Context, file string) (io.ReadCloser, error) {
	resp, err := r.instance.Object.Get(ctx, validKey(file), nil)
	if err != nil {
		return nil, ErrStorage.Wrap(err)
	}
	return resp.Body, nil
}

func (r *Cos) PutStream(ctx context.Context, file string, rs io.Reader) error {
	contentType, body, err := sniff(rs)
	if err != nil {
		return err
	}
	_, err = r.instance.Object.Put(ctx, validKey(file), body, &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{ContentType: contentType},
	})
	return ErrStorage.Wrap(err)
}

func (r *Cos) Url(file string) string {
	return r.instance.Object.GetObjectURL(validKey(file)).String()
}
