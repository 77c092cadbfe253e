package queue

import "github.com/benpate/rosetta/mapof"

// Message wraps a single message received from a Storage provider, along with
// the metadata required to acknowledge (delete) it afterwards.
type Message struct {
	MessageID     string       // Unique identifier assigned by the Storage provider
	ReceiptHandle string       // Handle used to delete this specific receipt of the message
	Body          string       // Raw message body, exactly as delivered
	Attributes    mapof.String // Provider-specific message attributes (may be empty)
}

// NewMessage returns a Message with the provided identifiers and body.
func NewMessage(messageID string, receiptHandle string, body string) Message {
	return Message{
		MessageID:     messageID,
		ReceiptHandle: receiptHandle,
		Body:          body,
		Attributes:    mapof.String{},
	}
}
