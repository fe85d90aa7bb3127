package seed

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Source provides named seed data files.
type Source interface {
	// Open returns a reader for the named seed file.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// dirSource reads seed files from a local directory.
type dirSource struct {
	dir    string
	logger zerolog.Logger
}

// NewDirSource creates a Source reading from a local data directory.
func NewDirSource(dir string, logger zerolog.Logger) Source {
	return &dirSource{
		dir:    dir,
		logger: logger.With().Str("component", "seed-dir-source").Logger(),
	}
}

func (s *dirSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	path := filepath.Join(s.dir, name)
	s.logger.Debug().Str("file", path).Msg("opening seed file")

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file %s: %w", path, err)
	}
	return f, nil
}

// s3Source reads seed files from an S3 bucket, for deployments where
// data files are not baked into the image.
type s3Source struct {
	client *s3.Client
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Source creates a Source reading from S3.
func NewS3Source(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Source, error) {
	logger = logger.With().Str("component", "seed-s3-source").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 seed source initialised")

	return &s3Source{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}, nil
}

func (s *s3Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := s.prefix + name
	s.logger.Debug().Str("bucket", s.bucket).Str("key", key).Msg("fetching seed file from S3")

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", key).
			Msg("failed to get seed object from S3")
		return nil, fmt.Errorf("failed to get seed object (bucket=%s, key=%s): %w", s.bucket, key, err)
	}

	return result.Body, nil
}
