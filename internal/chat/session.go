package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sells-group/client-dashboard/internal/model"
)

// Update is pushed to session subscribers. A streamed reply produces one
// Update per word followed by a Done update carrying the complete message.
type Update struct {
	Index   int               `json:"index"`
	Word    string            `json:"word,omitempty"`
	Done    bool              `json:"done"`
	Message model.ChatMessage `json:"message"`
}

// Word updates carry the text streamed so far in Message.Message, so a
// subscriber that missed a word still renders the full prefix.

const subscriberBuffer = 64

// Session is the append-only message log of one browser session. Messages
// are never edited or removed once appended.
type Session struct {
	ID        string
	ClientID  int64
	CreatedAt time.Time

	// turn serializes Streamer writes so a streaming reply owns the next
	// log index until it is appended.
	turn sync.Mutex

	mu      sync.Mutex
	log     []model.ChatMessage
	subs    map[int]chan Update
	nextSub int
}

func newSession(clientID int64) *Session {
	return &Session{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		CreatedAt: time.Now(),
		subs:      make(map[int]chan Update),
	}
}

// Append adds a message to the log and notifies subscribers. It returns the
// message's index in the log.
func (s *Session) Append(msg model.ChatMessage) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log = append(s.log, msg)
	idx := len(s.log) - 1
	s.publishLocked(Update{Index: idx, Done: true, Message: msg})
	return idx
}

// Len returns the number of messages in the log.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.log)
}

// Subscribers returns the number of active subscriptions.
func (s *Session) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Snapshot returns a copy of the log.
func (s *Session) Snapshot() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.ChatMessage, len(s.log))
	copy(out, s.log)
	return out
}

// Subscribe registers for updates. The returned cancel func unregisters and
// closes the channel.
func (s *Session) Subscribe() (<-chan Update, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Update, subscriberBuffer)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// publish notifies subscribers without touching the log.
func (s *Session) publish(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked(u)
}

// publishLocked never blocks. A subscriber whose buffer is full misses the
// update; Snapshot stays authoritative.
func (s *Session) publishLocked(u Update) {
	for _, ch := range s.subs {
		select {
		case ch <- u:
		default:
		}
	}
}

// Registry holds the live sessions by id.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create starts a new session for a client.
func (r *Registry) Create(clientID int64) *Session {
	s := newSession(clientID)
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns the session with id, or nil.
func (r *Registry) Get(id string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}

// Prune drops sessions created before cutoff and returns how many were removed.
func (r *Registry) Prune(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, s := range r.sessions {
		if s.CreatedAt.Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}
