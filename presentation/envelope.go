package presentation

import (
	"encoding/json"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/benpate/derp"
)

// Envelope is the outer notification wrapper.  When a topic fans out to a
// queue, the queue message body is the topic's notification, and the published
// payload is a JSON string in its "Message" field.
type Envelope = events.SNSEntity

// Decode parses a queue message body in two passes: first the Envelope, then
// the Notification held (as a string) in Envelope.Message.
func Decode(body string) (Notification, error) {

	const location = "presentation.Decode"

	envelope := Envelope{}

	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return Notification{}, derp.Wrap(err, location, "Unable to unmarshal envelope", body)
	}

	if envelope.Message == "" {
		return Notification{}, derp.InternalError(location, "Envelope is missing the Message field", body)
	}

	notification := Notification{}

	if err := json.Unmarshal([]byte(envelope.Message), &notification); err != nil {
		return Notification{}, derp.Wrap(err, location, "Unable to unmarshal notification", envelope.Message)
	}

	if notification.Presentation == nil {
		return Notification{}, derp.InternalError(location, "Notification is missing the presentation field", envelope.Message)
	}

	if notification.Presentation.Filename == "" {
		return Notification{}, derp.InternalError(location, "Presentation is missing the filename field", envelope.Message)
	}

	return notification, nil
}

// MarshalNotification returns the inner JSON payload for a Notification.  This
// is what gets published to a topic, which adds the Envelope itself.
func MarshalNotification(notification Notification) (string, error) {

	const location = "presentation.MarshalNotification"

	if notification.Presentation == nil || notification.Presentation.Filename == "" {
		return "", derp.InternalError(location, "Notification must name a presentation file", notification)
	}

	result, err := json.Marshal(notification)

	if err != nil {
		return "", derp.Wrap(err, location, "Unable to marshal notification")
	}

	return string(result), nil
}

// Encode wraps a Notification in an Envelope, producing a message body that Decode accepts.
func Encode(notification Notification) (string, error) {

	const location = "presentation.Encode"

	inner, err := MarshalNotification(notification)

	if err != nil {
		return "", derp.Wrap(err, location, "Unable to encode notification")
	}

	envelope := Envelope{
		Type:      "Notification",
		Timestamp: time.Now().UTC(),
		Message:   inner,
	}

	outer, err := json.Marshal(envelope)

	if err != nil {
		return "", derp.Wrap(err, location, "Unable to marshal envelope")
	}

	return string(outer), nil
}
