package storage

import (
	"bytes"
	"context"
	"log"

	"slateai/health-planner/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3Storage implements BackupStorage using an S3-compatible backend.
type s3Storage struct {
	client     *s3.Client
	bucketName string
}

// NewS3Storage creates a new S3 backup storage instance.
func NewS3Storage(cfg config.S3Config) (BackupStorage, error) {
	// Custom resolver for S3-compatible endpoints (like MinIO, DigitalOcean Spaces)
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint != "" {
			return aws.Endpoint{
				PartitionID:   "aws",
				URL:           cfg.Endpoint,
				SigningRegion: cfg.Region,
			}, nil
		}
		// Fallback to default AWS endpoint resolution if no custom endpoint is set
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(context.TODO(),
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsCfg.WithEndpointResolverWithOptions(customResolver),
	)
	if err != nil {
		log.Printf("ERROR: Failed to load AWS SDK config for S3: %v", err)
		return nil, err
	}

	// Force path-style addressing required by most S3-compatible services (like MinIO)
	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	log.Printf("S3 backup storage initialized for endpoint: %s, bucket: %s", cfg.Endpoint, cfg.BucketName)

	return &s3Storage{
		client:     s3Client,
		bucketName: cfg.BucketName,
	}, nil
}

func backupKey(planID string) string {
	return "plan-backups/" + planID + ".json"
}

// SavePlanBackup writes the snapshot under plan-backups/<plan_id>.json,
// overwriting any previous snapshot for the same plan.
func (s *s3Storage) SavePlanBackup(ctx context.Context, planID string, data []byte) error {
	key := backupKey(planID)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		log.Printf("ERROR: Failed to write backup '%s' to bucket '%s': %v", key, s.bucketName, err)
		return err
	}
	log.Printf("INFO: Wrote plan backup '%s' to bucket '%s'", key, s.bucketName)
	return nil
}

// DeletePlanBackup removes the snapshot for a plan.
func (s *s3Storage) DeletePlanBackup(ctx context.Context, planID string) error {
	key := backupKey(planID)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Printf("ERROR: Failed to delete backup '%s' from bucket '%s': %v", key, s.bucketName, err)
		return err
	}
	return nil
}
