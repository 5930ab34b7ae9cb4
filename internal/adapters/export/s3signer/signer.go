package s3signer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vidalink/internal/domain/healthevents"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

var ErrNoObjectKey = errors.New("document has no object key")

type Config struct {
	Bucket   string
	Region   string
	Endpoint string // opcional (MinIO/localstack)
	TTL      time.Duration

	// Opcionales; vacíos => cadena de credenciales por defecto de AWS.
	AccessKeyID     string
	SecretAccessKey string
}

// Signer firma GETs temporales sobre los documentos ya subidos (file_path = object key).
type Signer struct {
	client *s3.S3
	bucket string
	ttl    time.Duration
}

func New(cfg Config) (*Signer, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("s3 bucket required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create s3 session: %w", err)
	}

	return &Signer{client: s3.New(sess), bucket: cfg.Bucket, ttl: ttl}, nil
}

func (s *Signer) SignDownload(_ context.Context, doc healthevents.Document) (string, error) {
	key := strings.TrimLeft(strings.TrimSpace(doc.FilePath), "/")
	if key == "" {
		return "", ErrNoObjectKey
	}

	in := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if doc.OriginalName != "" {
		in.ResponseContentDisposition = aws.String(fmt.Sprintf("attachment; filename=%q", doc.OriginalName))
	}
	if doc.MimeType != "" {
		in.ResponseContentType = aws.String(doc.MimeType)
	}

	req, _ := s.client.GetObjectRequest(in)
	url, err := req.Presign(s.ttl)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return url, nil
}
