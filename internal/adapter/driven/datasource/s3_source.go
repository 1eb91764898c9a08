package datasource

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// objectGetter é o subconjunto do cliente S3 usado para baixar datasets.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// objectStore lê datasets de objetos S3, com o cliente criado sob demanda.
type objectStore struct {
	profile string

	mu     sync.Mutex
	client objectGetter
}

func newObjectStore(profile string) *objectStore {
	return &objectStore{profile: profile}
}

func (o *objectStore) getClient(ctx context.Context) (objectGetter, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.client != nil {
		return o.client, nil
	}

	var opts []func(*config.LoadOptions) error
	if o.profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(o.profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for profile %s: %w", o.profile, err)
	}

	o.client = s3.NewFromConfig(cfg)
	return o.client, nil
}

func (o *objectStore) read(ctx context.Context, location string) (rawTable, error) {
	bucket, key, err := parseS3URL(location)
	if err != nil {
		return rawTable{}, err
	}
	client, err := o.getClient(ctx)
	if err != nil {
		return rawTable{}, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return rawTable{}, fmt.Errorf("downloading %s: %w", location, err)
	}
	defer out.Body.Close()
	return decode(key, out.Body)
}

// parseS3URL separa s3://bucket/key em bucket e key.
func parseS3URL(location string) (string, string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("invalid S3 location %q: %w", location, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Scheme != "s3" || u.Host == "" || key == "" {
		return "", "", fmt.Errorf("invalid S3 location %q: expected s3://bucket/key", location)
	}
	return u.Host, key, nil
}
