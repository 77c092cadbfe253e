// Package queue_sqs implements the queue Storage interface on Amazon SQS.
package queue_sqs

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/benpate/derp"
	"github.com/rs/zerolog/log"
	"github.com/shankyank/presenter/queue"
)

// MaxWaitTime is the longest long-poll that SQS accepts in a single ReceiveMessage call
const MaxWaitTime = 20 * time.Second

// MaxMessages is the largest batch that SQS returns from a single ReceiveMessage call
const MaxMessages = 10

// API is the subset of *sqs.Client used by Storage
type API interface {
	GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Storage reads and deletes messages from a single SQS queue
type Storage struct {
	client   API    // client is the SQS API
	queueURL string // queueURL identifies the queue to read from
}

// New returns a fully initialized Storage object
func New(client API, queueURL string) Storage {
	return Storage{
		client:   client,
		queueURL: queueURL,
	}
}

// NewClient returns an SQS client configured from the default AWS credential
// chain (environment, shared config files, instance roles).  An empty region
// leaves the region to that chain as well.
func NewClient(ctx context.Context, region string) (*sqs.Client, error) {

	const location = "queue_sqs.NewClient"

	options := []func(*config.LoadOptions) error{}

	if region != "" {
		options = append(options, config.WithRegion(region))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, options...)

	if err != nil {
		return nil, derp.Wrap(err, location, "Unable to load AWS configuration", region)
	}

	return sqs.NewFromConfig(awsConfig), nil
}

// ResolveQueueURL looks up the URL of a queue by its name
func ResolveQueueURL(ctx context.Context, client API, queueName string) (string, error) {

	const location = "queue_sqs.ResolveQueueURL"

	output, err := client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(queueName),
	})

	if err != nil {
		return "", derp.Wrap(err, location, "Unable to find queue", queueName)
	}

	queueURL := aws.ToString(output.QueueUrl)

	if queueURL == "" {
		return "", derp.InternalError(location, "Queue URL is empty", queueName)
	}

	return queueURL, nil
}

// ReceiveMessages long-polls the queue for up to `wait` (SQS caps this at 20 seconds)
func (storage Storage) ReceiveMessages(ctx context.Context, maxMessages int, wait time.Duration) ([]queue.Message, error) {

	const location = "queue_sqs.ReceiveMessages"

	maxMessages = max(1, min(maxMessages, MaxMessages))
	wait = max(0, min(wait, MaxWaitTime))

	output, err := storage.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:                    aws.String(storage.queueURL),
		MaxNumberOfMessages:         int32(maxMessages),
		WaitTimeSeconds:             int32(wait / time.Second),
		MessageAttributeNames:       []string{"All"},
		MessageSystemAttributeNames: []types.MessageSystemAttributeName{types.MessageSystemAttributeNameAll},
	})

	if err != nil {
		return nil, derp.Wrap(err, location, "Unable to receive messages", storage.queueURL)
	}

	result := make([]queue.Message, 0, len(output.Messages))

	for _, sqsMessage := range output.Messages {
		result = append(result, toMessage(sqsMessage))
	}

	log.Trace().
		Str("location", location).
		Int("count", len(result)).
		Msg("Messages received.")

	return result, nil
}

// DeleteMessage removes a message from the queue, using its receipt handle
func (storage Storage) DeleteMessage(ctx context.Context, message queue.Message) error {

	const location = "queue_sqs.DeleteMessage"

	if message.ReceiptHandle == "" {
		return derp.InternalError(location, "Message has no receipt handle", message.MessageID)
	}

	_, err := storage.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(storage.queueURL),
		ReceiptHandle: aws.String(message.ReceiptHandle),
	})

	if err != nil {
		return derp.Wrap(err, location, "Unable to delete message", message.MessageID)
	}

	log.Trace().
		Str("location", location).
		Str("messageId", message.MessageID).
		Msg("Message deleted.")

	return nil
}

// SendMessage publishes a new message body to the queue
func (storage Storage) SendMessage(ctx context.Context, body string) error {

	const location = "queue_sqs.SendMessage"

	output, err := storage.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(storage.queueURL),
		MessageBody: aws.String(body),
	})

	if err != nil {
		return derp.Wrap(err, location, "Unable to send message", storage.queueURL)
	}

	log.Trace().
		Str("location", location).
		Str("messageId", aws.ToString(output.MessageId)).
		Msg("Message sent.")

	return nil
}

// toMessage converts an SQS message into a queue.Message.  String-valued
// message attributes are copied alongside the system attributes.
func toMessage(sqsMessage types.Message) queue.Message {

	result := queue.NewMessage(
		aws.ToString(sqsMessage.MessageId),
		aws.ToString(sqsMessage.ReceiptHandle),
		aws.ToString(sqsMessage.Body),
	)

	for key, value := range sqsMessage.Attributes {
		result.Attributes[key] = value
	}

	for key, value := range sqsMessage.MessageAttributes {
		if value.StringValue != nil {
			result.Attributes[key] = aws.ToString(value.StringValue)
		}
	}

	return result
}
