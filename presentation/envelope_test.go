package presentation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {

	body := `{"Message": "{\"presentation\": {\"filename\": \"deck.key\"}}"}`

	notification, err := Decode(body)
	require.Nil(t, err)
	require.Equal(t, "deck.key", notification.Presentation.Filename)
	require.Equal(t, "/decks/deck.key", Resolve("/decks", notification.Presentation.Filename))
}

func TestDecode_FullNotification(t *testing.T) {

	body := `{
		"Type": "Notification",
		"MessageId": "5b1c0d6e-0000-0000-0000-000000000000",
		"TopicArn": "arn:aws:sns:us-east-1:123456789012:presenter",
		"Timestamp": "2016-08-01T12:00:00.000Z",
		"Message": "{\"spokenName\":\"quarterly review\",\"confidence\":0.92,\"presentation\":{\"name\":\"Quarterly Review\",\"filename\":\"q3.key\"}}"
	}`

	notification, err := Decode(body)
	require.Nil(t, err)
	require.Equal(t, "quarterly review", notification.SpokenName)
	require.Equal(t, 0.92, notification.Confidence)
	require.Equal(t, "Quarterly Review", notification.Presentation.Name)
	require.Equal(t, "q3.key", notification.Presentation.Filename)
}

func TestDecode_Errors(t *testing.T) {

	test := func(body string) {
		_, err := Decode(body)
		require.NotNil(t, err, body)
	}

	test(``)
	test(`not json`)
	test(`null`)
	test(`{}`)
	test(`{"Message": ""}`)
	test(`{"Message": "not json"}`)
	test(`{"Message": "{}"}`)
	test(`{"Message": "{\"presentation\": {}}"}`)
	test(`{"Message": "{\"presentation\": {\"filename\": \"\"}}"}`)

	// Collapsing the two layers into one is not accepted
	test(`{"Message": {"presentation": {"filename": "deck.key"}}}`)
	test(`{"presentation": {"filename": "deck.key"}}`)
}

func TestEncode(t *testing.T) {

	notification := Notification{
		Presentation: &Presentation{Name: "Deck", Filename: "deck.key"},
	}

	body, err := Encode(notification)
	require.Nil(t, err)

	// The inner payload is a string, not a nested object
	outer := map[string]any{}
	require.Nil(t, json.Unmarshal([]byte(body), &outer))
	require.IsType(t, "", outer["Message"])
	require.Equal(t, "Notification", outer["Type"])

	decoded, err := Decode(body)
	require.Nil(t, err)
	require.Equal(t, notification.Presentation, decoded.Presentation)
}

func TestMarshalNotification(t *testing.T) {

	notification := Notification{
		SpokenName:   "lambda",
		Confidence:   0.9,
		Presentation: &Presentation{Name: "lambda", Filename: "lambda.pptx"},
	}

	payload, err := MarshalNotification(notification)
	require.Nil(t, err)
	require.JSONEq(t, `{"spokenName":"lambda","confidence":0.9,"presentation":{"name":"lambda","filename":"lambda.pptx"}}`, payload)

	_, err = MarshalNotification(Notification{})
	require.NotNil(t, err)

	_, err = Encode(Notification{Presentation: &Presentation{Name: "Deck"}})
	require.NotNil(t, err)
}

func TestResolve(t *testing.T) {

	require.Equal(t, "/decks/q3.key", Resolve("/decks", "q3.key"))
	require.Equal(t, "/decks/q3.key", Resolve("/decks/", "q3.key"))
	require.Equal(t, "decks/2016/q3.key", Resolve("decks", "2016/q3.key"))
	require.Equal(t, "q3.key", Resolve(".", "q3.key"))
}
