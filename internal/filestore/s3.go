package filestore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Store stores recipe images in an S3-compatible bucket via minio.
type S3Store struct {
	client    *minio.Client
	bucket    string
	keyPrefix string
	host      string
}

var _ FileStore = (*S3Store)(nil)

type S3Config struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	KeyPrefix string
	Host      string
}

func NewS3(conf S3Config) (*S3Store, error) {
	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating s3 client: %w", err)
	}

	return &S3Store{
		client:    client,
		bucket:    conf.Bucket,
		keyPrefix: conf.KeyPrefix,
		host:      strings.TrimRight(conf.Host, "/"),
	}, nil
}

func (s *S3Store) WriteRecipeImage(suffix string, data []byte) (key string, n int, err error) {
	return s.write(recipeImagePath(suffix), data)
}

func (s *S3Store) WriteRecipeThumbnail(imageKey string, data []byte) (key string, n int, err error) {
	return s.write(thumbnailSibling(trimKeyPrefix(imageKey, s.keyPrefix)), data)
}

func (s *S3Store) write(relpath string, data []byte) (key string, n int, err error) {
	object := trimKeyPrefix(joinKey(s.keyPrefix, relpath), s.keyPrefix)
	info, err := s.client.PutObject(context.Background(), s.bucket, object,
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return "", 0, fmt.Errorf("putting object: %w", err)
	}
	return joinKey(s.keyPrefix, relpath), int(info.Size), nil
}

func (s *S3Store) DeleteURLPath(urlpath string) error {
	object := trimKeyPrefix(urlpath, s.keyPrefix)
	_ = s.client.RemoveObject(context.Background(), s.bucket, thumbnailSibling(object),
		minio.RemoveObjectOptions{})
	if err := s.client.RemoveObject(context.Background(), s.bucket, object,
		minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("removing object: %w", err)
	}
	return nil
}

func (s *S3Store) FileURL(urlpath string) string {
	return s.host + "/" + strings.TrimLeft(urlpath, "/")
}
