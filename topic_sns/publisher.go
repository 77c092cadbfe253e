// Package topic_sns publishes notifications to an Amazon SNS topic.  A topic
// fanned out to SQS delivers each published message inside the envelope that
// the presentation package decodes.
package topic_sns

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/benpate/derp"
	"github.com/rs/zerolog/log"
)

// API is the subset of *sns.Client used by Publisher
type API interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Publisher sends messages to a single SNS topic
type Publisher struct {
	client   API    // client is the SNS API
	topicARN string // topicARN identifies the topic to publish to
}

// New returns a fully initialized Publisher
func New(client API, topicARN string) (Publisher, error) {

	const location = "topic_sns.New"

	if !strings.HasPrefix(topicARN, "arn:") {
		return Publisher{}, derp.InternalError(location, "Topic must be an ARN", topicARN)
	}

	result := Publisher{
		client:   client,
		topicARN: topicARN,
	}

	return result, nil
}

// NewClient returns an SNS client configured from the default AWS credential
// chain.  An empty region leaves the region to that chain as well.
func NewClient(ctx context.Context, region string) (*sns.Client, error) {

	const location = "topic_sns.NewClient"

	options := []func(*config.LoadOptions) error{}

	if region != "" {
		options = append(options, config.WithRegion(region))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, options...)

	if err != nil {
		return nil, derp.Wrap(err, location, "Unable to load AWS configuration", region)
	}

	return sns.NewFromConfig(awsConfig), nil
}

// Publish sends a message to the topic and returns the ID that SNS assigned to it
func (publisher Publisher) Publish(ctx context.Context, message string) (string, error) {

	const location = "topic_sns.Publish"

	if message == "" {
		return "", derp.InternalError(location, "Message must not be empty", publisher.topicARN)
	}

	output, err := publisher.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(publisher.topicARN),
		Message:  aws.String(message),
	})

	if err != nil {
		return "", derp.Wrap(err, location, "Unable to publish message", publisher.topicARN)
	}

	messageID := aws.ToString(output.MessageId)

	log.Trace().Str("location", location).Str("topic", publisher.topicARN).Str("messageId", messageID).Msg("Published message")
	return messageID, nil
}
