package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BlobStorage stores documents in a single Azure Blob container. Blob
// names are random UUIDs with the original extension preserved.
type BlobStorage struct {
	client    *azblob.Client
	container string
	logger    *zap.Logger
}

// NewBlobStorage connects via a connection string and creates the
// container on first use.
func NewBlobStorage(connectionString, container string, logger *zap.Logger) (*BlobStorage, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create blob client: %w", err)
	}

	if _, err := client.CreateContainer(context.Background(), container, nil); err != nil {
		if !strings.Contains(err.Error(), "ContainerAlreadyExists") {
			return nil, fmt.Errorf("create container: %w", err)
		}
	}

	logger.Info("Blob storage ready", zap.String("container", container))

	return &BlobStorage{client: client, container: container, logger: logger}, nil
}

// sizeReader counts bytes as the SDK streams them, since UploadStream
// does not report the uploaded size.
type sizeReader struct {
	io.Reader
	n int64
}

func (r *sizeReader) Read(p []byte) (int, error) {
	n, err := r.Reader.Read(p)
	r.n += int64(n)
	return n, err
}

func (s *BlobStorage) Upload(ctx context.Context, filename string, contentType string, data io.Reader) (string, int64, error) {
	blobName := uuid.New().String() + filepath.Ext(filename)

	reader := &sizeReader{Reader: data}
	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	}
	if _, err := s.client.UploadStream(ctx, s.container, blobName, reader, opts); err != nil {
		return "", 0, fmt.Errorf("upload blob: %w", err)
	}

	s.logger.Info("Document uploaded",
		zap.String("blob", blobName),
		zap.String("filename", filename),
		zap.Int64("size", reader.n),
	)

	return blobName, reader.n, nil
}

func (s *BlobStorage) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, storagePath, nil)
	if err != nil {
		return nil, fmt.Errorf("download blob: %w", err)
	}
	return resp.Body, nil
}

// Delete removes a blob, treating a missing blob as success.
func (s *BlobStorage) Delete(ctx context.Context, storagePath string) error {
	if _, err := s.client.DeleteBlob(ctx, s.container, storagePath, nil); err != nil {
		if strings.Contains(err.Error(), "BlobNotFound") {
			return nil
		}
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}
