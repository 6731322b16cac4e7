package assistant

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fatali-fataliyev/budget_assistant/customErrors"
	"github.com/fatali-fataliyev/budget_assistant/internal/budget"
	"github.com/fatali-fataliyev/budget_assistant/internal/contextutil"
	"github.com/fatali-fataliyev/budget_assistant/internal/history"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Reply is the outcome of one utterance. Parsed and Result are nil for
// questions, which are left to the caller to answer.
type Reply struct {
	Class  Class          `json:"class"`
	Kind   Kind           `json:"kind,omitempty"`
	Parsed *Parsed        `json:"-"`
	Result *CommandResult `json:"result,omitempty"`
}

// Assistant wires the classifier, parser and executor. It is shared by all
// sessions and holds no per-conversation state.
type Assistant struct {
	rules      *Rules
	classifier *Classifier
	executor   *Executor
	categories budget.CategoryLookup
	history    history.Store
	now        func() time.Time
	log        *logrus.Entry
}

func NewAssistant(rules *Rules, executor *Executor, categories budget.CategoryLookup, store history.Store, log *logrus.Entry) *Assistant {
	return &Assistant{
		rules:      rules,
		classifier: NewClassifier(rules),
		executor:   executor,
		categories: categories,
		history:    store,
		now:        time.Now,
		log:        log,
	}
}

func (a *Assistant) Classify(text string) Class {
	return a.classifier.Classify(text)
}

// Parse builds a parser over the current categories and parses text.
func (a *Assistant) Parse(ctx context.Context, text string) (Parsed, error) {
	cats, err := a.categories.Categories(ctx, "")
	if err != nil {
		return Parsed{}, fmt.Errorf("failed to load categories: %w", err)
	}
	return NewParser(a.rules, cats).Parse(text), nil
}

// Session is the context of one conversation. Calls on a session are
// serialized; separate sessions run independently.
type Session struct {
	ID string

	assistant *Assistant
	mu        sync.Mutex
	last      *Parsed
	closed    bool
}

func (a *Assistant) NewSession(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{ID: id, assistant: a}
}

// Handle classifies, parses and executes text, recording both sides of the
// exchange in the conversation history.
func (s *Session) Handle(ctx context.Context, text string) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Reply{}, customErrors.New(customErrors.ErrConflict, "conversation %s is closed", s.ID)
	}

	a := s.assistant
	ctx = contextutil.WithConversationID(ctx, s.ID)
	traceID := contextutil.TraceIDFromContext(ctx)

	if err := a.history.Append(ctx, s.ID, history.Message{Role: history.RoleUser, Text: text, At: a.now()}); err != nil {
		a.log.Errorf("[TraceID=%s] | failed to record user message, Error: %v", traceID, err)
		return Reply{}, fmt.Errorf("failed to record message: %w", err)
	}

	class := a.Classify(text)
	if class == ClassQuestion {
		a.log.WithField("conversation_id", s.ID).Debugf("[TraceID=%s] | utterance classified as question", traceID)
		return Reply{Class: class}, nil
	}

	parsed, err := a.Parse(ctx, text)
	if err != nil {
		a.log.Errorf("[TraceID=%s] | failed to parse command, Error: %v", traceID, err)
		return Reply{}, err
	}
	s.last = &parsed

	result := a.executor.Execute(ctx, parsed.Command)
	a.log.WithFields(logrus.Fields{
		"conversation_id": s.ID,
		"kind":            parsed.Command.Kind(),
		"defaults":        parsed.Defaults.String(),
		"success":         result.Success,
	}).Infof("[TraceID=%s] | command executed", traceID)

	if err := a.history.Append(ctx, s.ID, history.Message{Role: history.RoleAssistant, Text: result.Message, At: a.now()}); err != nil {
		a.log.Errorf("[TraceID=%s] | failed to record assistant message, Error: %v", traceID, err)
		return Reply{}, fmt.Errorf("failed to record message: %w", err)
	}

	return Reply{Class: class, Kind: parsed.Command.Kind(), Parsed: &parsed, Result: &result}, nil
}

// Last returns the most recent parsed command, if any.
func (s *Session) Last() (Parsed, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Parsed{}, false
	}
	return *s.last, true
}

func (s *Session) History(ctx context.Context) ([]history.Message, error) {
	return s.assistant.history.Messages(ctx, s.ID)
}

// Close ends the conversation and deletes its history.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.last = nil
	if err := s.assistant.history.Delete(ctx, s.ID); err != nil {
		return fmt.Errorf("failed to delete history: %w", err)
	}
	return nil
}

// DefaultIdleTimeout is how long a session stays cached without use. An
// evicted conversation keeps its history; only the in-memory state goes.
const DefaultIdleTimeout = 30 * time.Minute

// Manager tracks open sessions by conversation ID and drops the ones left
// idle longer than the idle timeout.
type Manager struct {
	assistant   *Assistant
	idleTimeout time.Duration
	now         func() time.Time

	mu        sync.RWMutex
	sessions  map[string]*entry
	lastSweep time.Time
}

type entry struct {
	session  *Session
	lastUsed time.Time
}

type ManagerOption func(*Manager)

// WithIdleTimeout sets the idle timeout. A non-positive d keeps the default.
func WithIdleTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.idleTimeout = d
		}
	}
}

func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

func NewManager(a *Assistant, opts ...ManagerOption) *Manager {
	m := &Manager{
		assistant:   a,
		idleTimeout: DefaultIdleTimeout,
		now:         time.Now,
		sessions:    make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.lastSweep = m.now()
	return m
}

func (m *Manager) Assistant() *Assistant {
	return m.assistant
}

// Open returns the session for id, creating it when needed. An empty id
// starts a new conversation. Idle sessions are swept here at most once per
// idle timeout.
func (m *Manager) Open(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) >= m.idleTimeout {
		m.sweep(now)
	}
	if e, ok := m.sessions[id]; ok && id != "" {
		e.lastUsed = now
		return e.session
	}
	s := m.assistant.NewSession(id)
	m.sessions[s.ID] = &entry{session: s, lastUsed: now}
	return s
}

// sweep drops sessions idle for longer than the timeout. Callers hold mu.
func (m *Manager) sweep(now time.Time) {
	for id, e := range m.sessions {
		if now.Sub(e.lastUsed) > m.idleTimeout {
			delete(m.sessions, id)
		}
	}
	m.lastSweep = now
}

// Len returns the number of cached sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return e.session, true
}

// History returns the transcript of id, including conversations persisted
// before this process started.
func (m *Manager) History(ctx context.Context, id string) ([]history.Message, error) {
	if s, ok := m.Get(id); ok {
		return s.History(ctx)
	}
	return m.assistant.history.Messages(ctx, id)
}

// End closes and forgets the session. Ending an unknown conversation still
// deletes any persisted history for it.
func (m *Manager) End(ctx context.Context, id string) error {
	if id == "" {
		return customErrors.New(customErrors.ErrInvalidInput, "conversation id is required")
	}
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	s := m.assistant.NewSession(id)
	if ok {
		s = e.session
	}
	return s.Close(ctx)
}
