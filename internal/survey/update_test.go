package survey

import (
	"fmt"
	"testing"
)

const startUpdate = `{
  "update_id": 1001,
  "message": {
    "message_id": 5,
    "from": {"id": 42, "first_name": "Aziz", "username": "aziz42"},
    "chat": {"id": 4242},
    "text": "/start"
  }
}`

func callbackUpdate(data string) string {
	return fmt.Sprintf(`{
  "update_id": 1002,
  "callback_query": {
    "id": "cb-1",
    "from": {"id": 42, "first_name": "Aziz", "username": "aziz42"},
    "data": %q,
    "message": {"message_id": 7, "chat": {"id": 4242}}
  }
}`, data)
}

func TestDecodeEventStartCommand(t *testing.T) {
	t.Parallel()

	ev, err := DecodeEvent([]byte(startUpdate))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Kind != EventStart {
		t.Fatalf("expected start event, got %v", ev.Kind)
	}
	if ev.UpdateID != 1001 || ev.ChatID != 4242 || ev.UserID != 42 {
		t.Fatalf("unexpected identifiers: %+v", ev)
	}
	if ev.DisplayName != "Aziz" || ev.Username != "aziz42" {
		t.Fatalf("unexpected user fields: %+v", ev)
	}
}

func TestDecodeEventRatingCallback(t *testing.T) {
	t.Parallel()

	ev, err := DecodeEvent([]byte(callbackUpdate("9")))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Kind != EventRating {
		t.Fatalf("expected rating event, got %v", ev.Kind)
	}
	if ev.Rating != 9 || ev.MessageID != 7 || ev.CallbackID != "cb-1" {
		t.Fatalf("unexpected callback fields: %+v", ev)
	}
}

func TestDecodeEventRejectsMissingUpdateID(t *testing.T) {
	t.Parallel()

	if _, err := DecodeEvent([]byte(`{"message": {"text": "/start"}}`)); err == nil {
		t.Fatalf("expected error for missing update_id")
	}
	if _, err := DecodeEvent([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for invalid json")
	}
}

func TestDecodeEventUnrecognizedShapes(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"plain message":      `{"update_id": 1, "message": {"message_id": 2, "from": {"id": 3}, "chat": {"id": 4}, "text": "hello"}}`,
		"bare update":        `{"update_id": 1}`,
		"message no from":    `{"update_id": 1, "message": {"message_id": 2, "chat": {"id": 4}, "text": "/start"}}`,
		"callback no chat":   `{"update_id": 1, "callback_query": {"id": "x", "from": {"id": 3}, "data": "5"}}`,
		"edited interaction": `{"update_id": 1, "edited_message": {"text": "/start"}}`,
	}
	for name, body := range cases {
		ev, err := DecodeEvent([]byte(body))
		if err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		if ev.Kind != EventUnrecognized {
			t.Fatalf("%s: expected unrecognized, got %v", name, ev.Kind)
		}
	}
}

func TestDecodeEventRejectsOutOfRangeRatings(t *testing.T) {
	t.Parallel()

	for _, data := range []string{"0", "10", "-1", "abc", ""} {
		ev, err := DecodeEvent([]byte(callbackUpdate(data)))
		if err != nil {
			t.Fatalf("data %q: decode: %v", data, err)
		}
		if ev.Kind != EventUnrecognized {
			t.Fatalf("data %q: expected unrecognized, got %v", data, ev.Kind)
		}
		if ev.CallbackID != "cb-1" {
			t.Fatalf("data %q: callback id not kept", data)
		}
	}
}

func TestDecodeEventDisplayNameFallbacks(t *testing.T) {
	t.Parallel()

	ev, err := DecodeEvent([]byte(`{
  "update_id": 1,
  "message": {"message_id": 2, "from": {"id": 42, "username": "handle"}, "chat": {"id": 4}, "text": "/start"}
}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.DisplayName != "handle" {
		t.Fatalf("expected username fallback, got %q", ev.DisplayName)
	}

	ev, err = DecodeEvent([]byte(`{
  "update_id": 1,
  "message": {"message_id": 2, "from": {"id": 42}, "chat": {"id": 4}, "text": "/start"}
}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.DisplayName != "42" {
		t.Fatalf("expected id fallback, got %q", ev.DisplayName)
	}
}
