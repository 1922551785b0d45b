package storage

import (
	"Food-Inventory-Backend/internal/utils"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
)

var (
	AllowImage = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

	ErrFileTypeNotAllowed   = errors.New("file type not allowed")
	ErrStorageNotConfigured = errors.New("aws s3 is not configured")
)

const maxUploadSize = 5 << 20

type (
	AwsS3 interface {
		UploadFile(ctx context.Context, fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error)
		UpdateFile(ctx context.Context, objectKey string, file *multipart.FileHeader, allowed ...string) (string, error)
		DeleteFile(ctx context.Context, objectKey string) error
		GetObjectKeyFromLink(link string) string
		GetPublicLinkKey(objectKey string) string
	}

	// ObjectPutDeleter is the subset of the S3 client used here.
	ObjectPutDeleter interface {
		PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
		DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	}

	awsS3 struct {
		client ObjectPutDeleter
		bucket string
		region string
	}
)

func NewAwsS3() (AwsS3, error) {
	bucket := utils.GetConfig("AWS_S3_BUCKET")
	region := utils.GetConfig("AWS_S3_REGION")
	if bucket == "" || region == "" {
		return nil, ErrStorageNotConfigured
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			utils.GetConfig("AWS_ACCESS_KEY"),
			utils.GetConfig("AWS_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return NewAwsS3WithClient(s3.NewFromConfig(cfg), bucket, region), nil
}

func NewAwsS3WithClient(client ObjectPutDeleter, bucket, region string) AwsS3 {
	return &awsS3{
		client: client,
		bucket: bucket,
		region: region,
	}
}

func (a *awsS3) UploadFile(ctx context.Context, fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error) {
	data, mime, err := readAllowed(file, allowed)
	if err != nil {
		return "", err
	}

	objectKey := path.Join(folder, fileName+mime.Extension())
	if err := a.put(ctx, objectKey, data, mime.String()); err != nil {
		return "", err
	}
	return objectKey, nil
}

func (a *awsS3) UpdateFile(ctx context.Context, objectKey string, file *multipart.FileHeader, allowed ...string) (string, error) {
	data, mime, err := readAllowed(file, allowed)
	if err != nil {
		return "", err
	}

	newKey := strings.TrimSuffix(objectKey, path.Ext(objectKey)) + mime.Extension()
	if err := a.put(ctx, newKey, data, mime.String()); err != nil {
		return "", err
	}
	if newKey != objectKey {
		_ = a.DeleteFile(ctx, objectKey)
	}
	return newKey, nil
}

func (a *awsS3) DeleteFile(ctx context.Context, objectKey string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
	})
	return err
}

func (a *awsS3) GetObjectKeyFromLink(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host != a.host() {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

func (a *awsS3) GetPublicLinkKey(objectKey string) string {
	return fmt.Sprintf("https://%s/%s", a.host(), objectKey)
}

func (a *awsS3) host() string {
	return fmt.Sprintf("%s.s3.%s.amazonaws.com", a.bucket, a.region)
}

func (a *awsS3) put(ctx context.Context, objectKey string, data []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return err
}

// readAllowed reads the upload and sniffs its content type; the header
// sent by the client is not trusted.
func readAllowed(file *multipart.FileHeader, allowed []string) ([]byte, *mimetype.MIME, error) {
	if file == nil {
		return nil, nil, ErrFileTypeNotAllowed
	}
	if file.Size > maxUploadSize {
		return nil, nil, fmt.Errorf("file exceeds %d bytes", maxUploadSize)
	}

	f, err := file.Open()
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil {
		return nil, nil, err
	}

	mime := mimetype.Detect(data)
	if len(allowed) > 0 && !slices.ContainsFunc(allowed, func(a string) bool { return mime.Is(a) }) {
		return nil, nil, fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, mime.String())
	}
	return data, mime, nil
}
