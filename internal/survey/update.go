// Package survey implements the webhook event pipeline: update
// deduplication, one-vote-per-user enforcement, the rating state machine,
// and the response-text tiers.
package survey

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Wire shapes for the two Telegram interactions the bot recognizes. Only the
// fields the pipeline reads are declared; everything else in the update is
// ignored.
type wireUpdate struct {
	UpdateID      *int64             `json:"update_id"`
	Message       *wireMessage       `json:"message"`
	CallbackQuery *wireCallbackQuery `json:"callback_query"`
}

type wireMessage struct {
	MessageID int64     `json:"message_id"`
	From      *wireUser `json:"from"`
	Chat      *wireChat `json:"chat"`
	Text      string    `json:"text"`
}

type wireCallbackQuery struct {
	ID      string       `json:"id"`
	From    *wireUser    `json:"from"`
	Message *wireMessage `json:"message"`
	Data    string       `json:"data"`
}

type wireUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

type wireChat struct {
	ID int64 `json:"id"`
}

// EventKind classifies an inbound update.
type EventKind int

const (
	// EventUnrecognized marks updates that are neither a /start command nor
	// a rating callback. They are acknowledged and dropped.
	EventUnrecognized EventKind = iota
	// EventStart is a /start command opening the survey.
	EventStart
	// EventRating is an inline-keyboard callback carrying a rating.
	EventRating
)

// Event is the normalized form of one webhook delivery.
type Event struct {
	UpdateID    int64
	Kind        EventKind
	ChatID      int64
	UserID      int64
	DisplayName string
	Username    string
	CallbackID  string
	MessageID   int64
	Rating      int
}

// DecodeEvent parses and classifies one webhook body. A body that is not
// JSON or carries no update_id is an error; a well-formed update of an
// unrecognized shape decodes into EventUnrecognized.
func DecodeEvent(body []byte) (Event, error) {
	var upd wireUpdate
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&upd); err != nil {
		return Event{}, fmt.Errorf("decode update: %w", err)
	}
	if upd.UpdateID == nil {
		return Event{}, fmt.Errorf("update has no update_id")
	}

	ev := Event{UpdateID: *upd.UpdateID, Kind: EventUnrecognized}

	if msg := upd.Message; msg != nil && msg.Text == "/start" && msg.Chat != nil && msg.From != nil {
		ev.Kind = EventStart
		ev.ChatID = msg.Chat.ID
		ev.UserID = msg.From.ID
		ev.DisplayName = displayName(msg.From)
		ev.Username = msg.From.Username
		return ev, nil
	}

	if cb := upd.CallbackQuery; cb != nil && cb.ID != "" && cb.From != nil &&
		cb.Message != nil && cb.Message.Chat != nil {
		// Keep the callback id even when the payload is unusable so the
		// router can still clear the client's pending-callback spinner.
		ev.CallbackID = cb.ID
		rating, err := strconv.Atoi(cb.Data)
		if err != nil || rating < MinRating || rating > MaxRating {
			return ev, nil
		}
		ev.Kind = EventRating
		ev.ChatID = cb.Message.Chat.ID
		ev.UserID = cb.From.ID
		ev.DisplayName = displayName(cb.From)
		ev.Username = cb.From.Username
		ev.MessageID = cb.Message.MessageID
		ev.Rating = rating
		return ev, nil
	}

	return ev, nil
}

func displayName(u *wireUser) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return u.Username
	}
	return strconv.FormatInt(u.ID, 10)
}
