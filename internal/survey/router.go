package survey

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/SAIZENtm1/tgbot/internal/storage"
)

const defaultCallTimeout = 5 * time.Second

// timestampLayout keeps sheet rows sortable as plain strings.
const timestampLayout = "2006-01-02 15:04:05"

// Messenger is the outbound Telegram surface the router drives. All calls
// are independent per event; a failed call never aborts its siblings.
type Messenger interface {
	SendQuestion(ctx context.Context, chatID int64, text string) error
	SendText(ctx context.Context, chatID int64, text string) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
	RemoveKeyboard(ctx context.Context, chatID, messageID int64) error
}

// VotePublisher emits an event for each recorded vote.
type VotePublisher interface {
	Publish(ctx context.Context, rec storage.VoteRecord) error
}

// Router drives one webhook delivery through dedup, classification and
// dispatch. It owns the process-wide dedup set and vote ledger.
type Router struct {
	messenger   Messenger
	store       storage.VoteStore
	publisher   VotePublisher
	dedup       *UpdateDedup
	ledger      *VoteLedger
	singleVote  bool
	loc         *time.Location
	callTimeout time.Duration
	now         func() time.Time
	log         *slog.Logger
}

// RouterOptions tune router behavior beyond its collaborators.
type RouterOptions struct {
	// SingleVote enforces one recorded rating per user.
	SingleVote bool
	// Location is the deployment time zone used for vote timestamps.
	Location *time.Location
	// CallTimeout bounds each outbound storage/publisher call.
	CallTimeout time.Duration
	// Publisher, when set, receives an event per durably recorded vote.
	Publisher VotePublisher
}

// NewRouter wires the router with fresh dedup/ledger state.
func NewRouter(log *slog.Logger, messenger Messenger, store storage.VoteStore, opts RouterOptions) *Router {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = defaultCallTimeout
	}
	return &Router{
		messenger:   messenger,
		store:       store,
		publisher:   opts.Publisher,
		dedup:       NewUpdateDedup(),
		ledger:      NewVoteLedger(),
		singleVote:  opts.SingleVote,
		loc:         opts.Location,
		callTimeout: opts.CallTimeout,
		now:         time.Now,
		log:         log,
	}
}

// Bootstrap populates the vote ledger from storage. It fails soft: a read
// error leaves the ledger empty rather than blocking startup.
func (r *Router) Bootstrap(ctx context.Context) {
	if !r.singleVote {
		return
	}
	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	records, err := r.store.List(callCtx)
	if err != nil {
		r.log.Error("Vote ledger bootstrap failed, starting empty", "error", err)
		return
	}
	r.ledger.Load(records)
	r.log.Info("Vote ledger loaded", "voters", r.ledger.Len())
}

// Handle processes one webhook body to completion. Malformed or duplicate
// deliveries are dropped silently so Telegram stops retrying them.
func (r *Router) Handle(ctx context.Context, body []byte) error {
	ev, err := DecodeEvent(body)
	if err != nil {
		r.log.Warn("Dropping malformed update", "error", err)
		return nil
	}

	// Record before dispatch: a redelivery after a mid-processing crash is
	// treated as handled rather than risking double sends.
	if !r.dedup.Observe(ev.UpdateID) {
		r.log.Debug("Skipping duplicate update", "update_id", ev.UpdateID)
		return nil
	}

	switch ev.Kind {
	case EventStart:
		r.handleStart(ctx, ev)
	case EventRating:
		r.handleRating(ctx, ev)
	default:
		if ev.CallbackID != "" {
			// Clear the client's pending-callback spinner even though the
			// payload was unusable.
			if err := r.messenger.AnswerCallback(ctx, ev.CallbackID, ""); err != nil {
				r.log.Warn("Answer callback failed", "update_id", ev.UpdateID, "error", err)
			}
		}
		r.log.Info("Ignoring unrecognized update", "update_id", ev.UpdateID)
	}
	return nil
}

func (r *Router) handleStart(ctx context.Context, ev Event) {
	userID := strconv.FormatInt(ev.UserID, 10)

	if r.singleVote && r.ledger.HasVoted(userID) {
		if err := r.messenger.SendText(ctx, ev.ChatID, AlreadyVotedText(ev.DisplayName)); err != nil {
			r.log.Warn("Send already-voted notice failed", "chat_id", ev.ChatID, "error", err)
		}
		return
	}

	if err := r.messenger.SendQuestion(ctx, ev.ChatID, QuestionText(ev.DisplayName)); err != nil {
		r.log.Warn("Send question failed", "chat_id", ev.ChatID, "error", err)
		return
	}
	r.log.Info("Sent survey question", "user_id", userID)
}

func (r *Router) handleRating(ctx context.Context, ev Event) {
	userID := strconv.FormatInt(ev.UserID, 10)

	if r.singleVote && !r.ledger.TryClaim(userID) {
		if err := r.messenger.AnswerCallback(ctx, ev.CallbackID, CallbackRejectText()); err != nil {
			r.log.Warn("Answer callback failed", "user_id", userID, "error", err)
		}
		if err := r.messenger.RemoveKeyboard(ctx, ev.ChatID, ev.MessageID); err != nil {
			r.log.Warn("Remove keyboard failed", "chat_id", ev.ChatID, "error", err)
		}
		return
	}

	// The callback acknowledgment has its own client-side timeout, so it
	// goes out before any storage work.
	if err := r.messenger.AnswerCallback(ctx, ev.CallbackID, CallbackConfirmText(ev.Rating)); err != nil {
		r.log.Warn("Answer callback failed", "user_id", userID, "error", err)
	}
	if err := r.messenger.RemoveKeyboard(ctx, ev.ChatID, ev.MessageID); err != nil {
		r.log.Warn("Remove keyboard failed", "chat_id", ev.ChatID, "error", err)
	}

	rec := storage.VoteRecord{
		Timestamp:   r.now().In(r.loc).Format(timestampLayout),
		Rating:      ev.Rating,
		UserID:      userID,
		DisplayName: ev.DisplayName,
		Username:    formatUsername(ev.Username),
	}

	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	err := r.store.Append(callCtx, rec)
	cancel()
	if err != nil {
		// The user still gets the thank-you; the lost row is an accepted
		// durability gap. Releasing the claim keeps the ledger honest.
		r.log.Error("Vote persist failed", "user_id", userID, "rating", ev.Rating, "error", err)
		if r.singleVote {
			r.ledger.Release(userID)
		}
	} else {
		r.log.Info("Recorded vote", "user_id", userID, "rating", ev.Rating)
		r.publishVote(ctx, rec)
	}

	if err := r.messenger.SendText(ctx, ev.ChatID, ThankYouText(ev.Rating, ev.DisplayName)); err != nil {
		r.log.Warn("Send thank-you failed", "chat_id", ev.ChatID, "error", err)
	}
}

func (r *Router) publishVote(ctx context.Context, rec storage.VoteRecord) {
	if r.publisher == nil {
		return
	}
	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()
	if err := r.publisher.Publish(callCtx, rec); err != nil {
		r.log.Warn("Vote event publish failed", "user_id", rec.UserID, "error", err)
	}
}

func formatUsername(username string) string {
	if username == "" {
		return storage.UsernameNone
	}
	return "@" + username
}
