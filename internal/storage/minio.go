package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"resume-intel-go/internal/config"
	"resume-intel-go/internal/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStore 对象存储封装：原始简历文本与解析记录JSON的归档
type MinIOStore struct {
	client        *minio.Client
	rawTextBucket string
	recordBucket  string
}

// NewMinIOStore 建立连接并确保存储桶存在
func NewMinIOStore(cfg config.MinIOConfig) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	store := &MinIOStore{
		client:        client,
		rawTextBucket: cfg.RawTextBucket,
		recordBucket:  cfg.RecordBucket,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, bucket := range []string{cfg.RawTextBucket, cfg.RecordBucket} {
		if err := store.ensureBucket(ctx, bucket, cfg.Location); err != nil {
			return nil, err
		}
	}

	return store, nil
}

func (s *MinIOStore) ensureBucket(ctx context.Context, bucket, location string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("检查存储桶 %s 失败: %w", bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: location}); err != nil {
		return fmt.Errorf("创建存储桶 %s 失败: %w", bucket, err)
	}
	logger.Info().Str("bucket", bucket).Msg("MinIO存储桶已创建")
	return nil
}

// PutRawText 归档原始简历文本，返回对象键
func (s *MinIOStore) PutRawText(ctx context.Context, resumeID string, text string) (string, error) {
	objectKey := fmt.Sprintf("raw/%s.txt", resumeID)
	data := []byte(text)

	_, err := s.client.PutObject(ctx, s.rawTextBucket, objectKey,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"})
	if err != nil {
		return "", fmt.Errorf("归档原始文本失败: %w", err)
	}
	return objectKey, nil
}

// PutRecordJSON 归档解析记录JSON，返回对象键
func (s *MinIOStore) PutRecordJSON(ctx context.Context, resumeID string, data []byte) (string, error) {
	objectKey := fmt.Sprintf("records/%s.json", resumeID)

	_, err := s.client.PutObject(ctx, s.recordBucket, objectKey,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("归档解析记录失败: %w", err)
	}
	return objectKey, nil
}
