package chat

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/client-dashboard/internal/model"
)

// Responder chooses the text of a simulated reply.
type Responder interface {
	Reply(prompt string) string
}

// CannedResponder cycles through a fixed set of replies.
type CannedResponder struct {
	replies []string
	next    atomic.Uint64
}

// DefaultReplies are used when no replies are configured.
var DefaultReplies = []string{
	"Thanks for reaching out! That time works for me.",
	"Sounds good, can you send over the details?",
	"I'll check with my spouse and get back to you later today.",
}

// NewCannedResponder creates a responder over replies, or DefaultReplies
// when replies is empty.
func NewCannedResponder(replies ...string) *CannedResponder {
	if len(replies) == 0 {
		replies = DefaultReplies
	}
	return &CannedResponder{replies: replies}
}

// Reply returns the next canned reply. The prompt is ignored.
func (c *CannedResponder) Reply(string) string {
	n := c.next.Add(1) - 1
	return c.replies[n%uint64(len(c.replies))]
}

// DefaultWordsPerSecond paces simulated typing at one word every 50ms.
const DefaultWordsPerSecond = 20

// Streamer appends a simulated reply to a session one word at a time.
type Streamer struct {
	responder      Responder
	wordsPerSecond float64
	now            func() time.Time
}

// StreamerOption configures a Streamer.
type StreamerOption func(*Streamer)

// WithWordsPerSecond sets the typing pace. Non-positive values disable pacing.
func WithWordsPerSecond(wps float64) StreamerOption {
	return func(s *Streamer) { s.wordsPerSecond = wps }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) StreamerOption {
	return func(s *Streamer) { s.now = now }
}

// NewStreamer creates a Streamer using responder for reply text.
func NewStreamer(responder Responder, opts ...StreamerOption) *Streamer {
	s := &Streamer{
		responder:      responder,
		wordsPerSecond: DefaultWordsPerSecond,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send records a message typed by the sales rep. If a reply is streaming in
// the session, Send waits for it to be appended first.
func (s *Streamer) Send(sess *Session, text string) model.ChatMessage {
	sess.turn.Lock()
	defer sess.turn.Unlock()

	msg := model.ChatMessage{
		Timestamp: s.now().Format(model.ChatTimestampLayout),
		Role:      model.RoleSalesRep,
		Message:   text,
	}
	sess.Append(msg)
	return msg
}

// Reply streams the simulated client reply to prompt. Each word is published
// to subscribers as it is "typed"; the complete message is appended to the
// log when the last word is out. Replies in one session take turns, and
// every word Update carries the index the reply is appended at. If ctx ends
// first, the words typed so far are appended (nothing when no word was typed)
// and ctx.Err() is returned.
func (s *Streamer) Reply(ctx context.Context, sess *Session, prompt string) (model.ChatMessage, error) {
	sess.turn.Lock()
	defer sess.turn.Unlock()

	words := strings.Fields(s.responder.Reply(prompt))
	msg := model.ChatMessage{
		Timestamp: s.now().Format(model.ChatTimestampLayout),
		Role:      model.RoleClient,
	}

	var limiter *rate.Limiter
	if s.wordsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.wordsPerSecond), 1)
	}

	index := sess.Len()
	var typed []string
	for _, w := range words {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				msg.Message = strings.Join(typed, " ")
				if len(typed) > 0 {
					sess.Append(msg)
				}
				zap.L().Debug("chat: reply interrupted",
					zap.String("session", sess.ID),
					zap.Int("words", len(typed)),
					zap.Error(err),
				)
				return msg, err
			}
		}
		typed = append(typed, w)
		partial := msg
		partial.Message = strings.Join(typed, " ")
		sess.publish(Update{Index: index, Word: w, Message: partial})
	}

	msg.Message = strings.Join(typed, " ")
	sess.Append(msg)
	return msg, nil
}
