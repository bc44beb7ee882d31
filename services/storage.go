package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-moderation-backend/config"
	"github.com/rpupo63/portfolio-moderation-backend/errs"
)

// MaxProposalSize bounds an uploaded project proposal.
const MaxProposalSize = 10 << 20

type objectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// ProposalStore keeps freelance project proposals in S3.
type ProposalStore struct {
	client objectStore
	bucket string
}

// NewProposalStore reads PROPOSAL_BUCKET and uses the default AWS credential chain.
func NewProposalStore(ctx context.Context, cfg map[string]string) (*ProposalStore, error) {
	bucket := config.GetString(cfg, "PROPOSAL_BUCKET", "")
	if bucket == "" {
		return nil, errs.NewEnvironmentVariableError("PROPOSAL_BUCKET")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errs.NewConfigError("aws", err)
	}
	return &ProposalStore{client: s3.NewFromConfig(awsCfg), bucket: bucket}, nil
}

// Put uploads body and returns its object key.
func (s *ProposalStore) Put(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := ProposalKey(uuid.New(), filename)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading proposal %s: %w", key, err)
	}
	return key, nil
}

// Delete removes the object stored under key.
func (s *ProposalStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting proposal %s: %w", key, err)
	}
	return nil
}

// ProposalKey builds the object key proposals/<id>/<base name>.
func ProposalKey(id uuid.UUID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "proposal"
	}
	return "proposals/" + id.String() + "/" + name
}
