package gcs

import (
	"context"
	"log/slog"

	"cloud.google.com/go/storage"

	"github.com/mlandesman/SAMS-sub005/internal/pkg/log_messages"
	"github.com/mlandesman/SAMS-sub005/internal/pkg/logger"
	"github.com/mlandesman/SAMS-sub005/internal/service/interfaces"
)

// GCSClient uploads generated report objects to one bucket.
type GCSClient struct {
	Client     *storage.Client
	BucketName string
}

func NewGCSClient(ctx context.Context, bucketName string) (interfaces.GcsInterface, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSClient{
		Client:     client,
		BucketName: bucketName,
	}, nil
}

func (g *GCSClient) Close(ctx context.Context) {
	if g.Client == nil {
		return
	}
	if err := g.Client.Close(); err != nil {
		logger.CtxError(ctx, log_messages.ErrorClosingGCSClient, err)
	}
}

func (g *GCSClient) Upload(ctx context.Context, objectName string, data []byte, contentType string) error {
	object := g.Client.Bucket(g.BucketName).Object(objectName)
	writer := object.NewWriter(ctx)
	writer.ContentType = contentType
	if _, err := writer.Write(data); err != nil {
		logger.CtxError(ctx, log_messages.ErrorUploadingToGCSBucket, err)
		return err
	}
	if err := writer.Close(); err != nil {
		logger.CtxError(ctx, log_messages.ErrorClosingGCSWriter, err)
		return err
	}
	logger.CtxInfo(ctx, log_messages.UploadedToGCSBucket, slog.String("objectName", objectName))
	return nil
}
