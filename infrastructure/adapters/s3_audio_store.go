package adapters

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/Sameer-Bagul/ai-lead-generation-house/application/ports/outbound"
	"github.com/Sameer-Bagul/ai-lead-generation-house/config"
)

type s3AudioStore struct {
	s3Svc    *s3.S3
	s3Config *config.S3Config
}

// NewS3AudioStore stores synthesized reply audio in a public bucket so the
// telephony provider can fetch and play it over plain HTTP.
func NewS3AudioStore(s3Svc *s3.S3, s3Config *config.S3Config) outbound.AudioStorePort {
	return &s3AudioStore{
		s3Svc:    s3Svc,
		s3Config: s3Config,
	}
}

func (s *s3AudioStore) Save(ctx context.Context, callID string, turnOrdinal int, audio []byte) (string, error) {
	itemPath := s.audioItemPath(callID, turnOrdinal)

	putInput := &s3.PutObjectInput{
		Bucket:        aws.String(s.s3Config.BucketName),
		Key:           aws.String(itemPath),
		Body:          bytes.NewReader(audio),
		ContentType:   aws.String("audio/mpeg"),
		ContentLength: aws.Int64(int64(len(audio))),
	}

	_, err := s.s3Svc.PutObjectWithContext(ctx, putInput)
	if err != nil {
		log.Error().
			Err(err).
			Str("bucket", s.s3Config.BucketName).
			Str("key", itemPath).
			Msg("Failed to upload audio to S3")
		return "", err
	}

	s3Url := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, itemPath)
	log.Debug().
		Str("s3Url", s3Url).
		Msg("Successfully uploaded audio to S3")

	return s3Url, nil
}

func (s *s3AudioStore) audioItemPath(callID string, turnOrdinal int) string {
	return fmt.Sprintf("calls/%s/reply-%d.mp3", callID, turnOrdinal)
}
