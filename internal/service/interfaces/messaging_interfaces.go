package interfaces

import "context"

// PubSubPublisherInterface is a publisher bound to one topic.
type PubSubPublisherInterface interface {
	PublishMessage(ctx context.Context, message any) (string, error)
}

type KafkaPublisherInterface interface {
	Publish(ctx context.Context, msg []byte) error
}

type GcsInterface interface {
	Upload(ctx context.Context, objectName string, data []byte, contentType string) error
	Close(ctx context.Context)
}

// SFTPFileFetcher pulls a legacy import file from the SFTP drop directory
// and archives it after processing.
type SFTPFileFetcher interface {
	PullImportFile(ctx context.Context, fileName string) ([]byte, error)
	ArchiveImportFile(ctx context.Context, fileName string) error
}
