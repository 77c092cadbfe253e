// Package catalog loads the list of presentations that spoken names are
// matched against.  A catalog is a JSON array of {"name", "filename"} objects,
// read from a local file or from an S3 object.
package catalog

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/benpate/derp"
	"github.com/rs/zerolog/log"
	"github.com/shankyank/presenter/presentation"
)

// S3Scheme prefixes catalog locations that are stored in S3 (s3://bucket/key)
const S3Scheme = "s3://"

// S3API is the subset of *s3.Client used to read a catalog
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewClient returns an S3 client configured from the default AWS credential chain
func NewClient(ctx context.Context, region string) (*s3.Client, error) {

	const location = "catalog.NewClient"

	options := []func(*config.LoadOptions) error{}

	if region != "" {
		options = append(options, config.WithRegion(region))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, options...)

	if err != nil {
		return nil, derp.Wrap(err, location, "Unable to load AWS configuration", region)
	}

	return s3.NewFromConfig(awsConfig), nil
}

// IsS3 returns TRUE if the location names an S3 object
func IsS3(location string) bool {
	return strings.HasPrefix(location, S3Scheme)
}

// Load reads a catalog from a local file, or from S3 when the location uses
// the s3:// scheme.  The client is only used for S3 locations and may be nil
// otherwise.
func Load(ctx context.Context, client S3API, source string) ([]presentation.Presentation, error) {

	const location = "catalog.Load"

	if !IsS3(source) {
		return LoadFile(source)
	}

	if client == nil {
		return nil, derp.InternalError(location, "S3 client is required for S3 catalogs", source)
	}

	bucket, key, err := splitS3(source)

	if err != nil {
		return nil, derp.Wrap(err, location, "Invalid catalog location", source)
	}

	output, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		return nil, derp.Wrap(err, location, "Unable to read catalog from S3", source)
	}

	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)

	if err != nil {
		return nil, derp.Wrap(err, location, "Unable to read catalog body", source)
	}

	result, err := Parse(data)

	if err != nil {
		return nil, derp.Wrap(err, location, "Invalid catalog", source)
	}

	log.Debug().Str("location", location).Str("source", source).Int("presentations", len(result)).Msg("Loaded catalog")
	return result, nil
}

// LoadFile reads a catalog from a local JSON file
func LoadFile(path string) ([]presentation.Presentation, error) {

	const location = "catalog.LoadFile"

	data, err := os.ReadFile(path)

	if err != nil {
		return nil, derp.Wrap(err, location, "Unable to read catalog file", path)
	}

	result, err := Parse(data)

	if err != nil {
		return nil, derp.Wrap(err, location, "Invalid catalog", path)
	}

	return result, nil
}

// Parse decodes a JSON catalog.  Every entry needs both a name and a filename.
func Parse(data []byte) ([]presentation.Presentation, error) {

	const location = "catalog.Parse"

	result := make([]presentation.Presentation, 0)

	if err := json.Unmarshal(data, &result); err != nil {
		return nil, derp.Wrap(err, location, "Unable to unmarshal catalog")
	}

	if err := Validate(result); err != nil {
		return nil, derp.Wrap(err, location, "Invalid catalog entry")
	}

	return result, nil
}

// Validate checks that every entry can be matched and started
func Validate(presentations []presentation.Presentation) error {

	const location = "catalog.Validate"

	for index, item := range presentations {

		if strings.TrimSpace(item.Name) == "" {
			return derp.InternalError(location, "Presentation is missing a name", index, item.Filename)
		}

		if strings.TrimSpace(item.Filename) == "" {
			return derp.InternalError(location, "Presentation is missing a filename", index, item.Name)
		}
	}

	return nil
}

// splitS3 separates an s3://bucket/key location into its bucket and key
func splitS3(source string) (string, string, error) {

	const location = "catalog.splitS3"

	bucket, key, found := strings.Cut(strings.TrimPrefix(source, S3Scheme), "/")

	if !found || bucket == "" || key == "" {
		return "", "", derp.InternalError(location, "Location must look like s3://bucket/key", source)
	}

	return bucket, key, nil
}
