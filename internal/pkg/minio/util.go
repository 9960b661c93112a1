package minio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/haruhisa-hosei/hosei-content-api/internal/api/config"

	"github.com/minio/minio-go/v7"
)

// UploadObject オブジェクトをアップロードする
func UploadObject(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if Client == nil {
		return "", fmt.Errorf("minio client is not initialized")
	}

	uploadInfo, err := Client.PutObject(ctx, Bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	return uploadInfo.Key, nil
}

// StatObject オブジェクトのメタ情報を取得する
func StatObject(ctx context.Context, objectName string) (minio.ObjectInfo, error) {
	if Client == nil {
		return minio.ObjectInfo{}, fmt.Errorf("minio client is not initialized")
	}
	return Client.StatObject(ctx, Bucket, objectName, minio.StatObjectOptions{})
}

// GetObject オブジェクトを取得する。start/end は Range 指定（end<0 で末尾まで）
func GetObject(ctx context.Context, objectName string, start, end int64) (*minio.Object, error) {
	if Client == nil {
		return nil, fmt.Errorf("minio client is not initialized")
	}

	opts := minio.GetObjectOptions{}
	if start > 0 || end >= 0 {
		if end >= 0 {
			if err := opts.SetRange(start, end); err != nil {
				return nil, err
			}
		} else {
			if err := opts.SetRange(start, 0); err != nil {
				return nil, err
			}
		}
	}
	return Client.GetObject(ctx, Bucket, objectName, opts)
}

// DeleteObject オブジェクトを削除する
func DeleteObject(ctx context.Context, objectName string) error {
	if Client == nil {
		return fmt.Errorf("minio client is not initialized")
	}
	return Client.RemoveObject(ctx, Bucket, objectName, minio.RemoveObjectOptions{})
}

// PublicURL 公開URLを組み立てる。public_base があればそちらを優先する
func PublicURL(objectName string) string {
	cfg := config.Cfg.MinIO

	if cfg.PublicBase != "" {
		return strings.TrimRight(cfg.PublicBase, "/") + "/" + objectName
	}

	protocol := "http"
	if cfg.UseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, cfg.Endpoint, cfg.Bucket, objectName)
}
