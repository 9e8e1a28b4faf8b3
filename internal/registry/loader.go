package registry

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"gopkg.in/yaml.v3"

	"github.com/ignite/outreach-engine/internal/domain"
	"github.com/ignite/outreach-engine/internal/pkg/logger"
)

// registryFile is the YAML shape of a registry file or S3 object.
type registryFile struct {
	Organizations []domain.OrganizationProfile `yaml:"organizations"`
}

// LoadFile reads a registry from a YAML file on disk.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry file %s: %w", path, err)
	}
	return parse(data)
}

// S3API is the subset of the S3 client the loader needs.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// LoadS3 reads a registry from an S3 object.
func LoadS3(ctx context.Context, client S3API, bucket, key string) (*Registry, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching registry s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading registry object body: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing registry yaml: %w", err)
	}
	if len(file.Organizations) == 0 {
		return nil, fmt.Errorf("registry contains no organizations")
	}
	reg := New(file.Organizations)
	logger.Info("registry loaded", "organizations", fmt.Sprintf("%d", reg.Len()))
	return reg, nil
}
