package moderation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"echoroom/internal/middleware"
	"echoroom/internal/models"
	"echoroom/internal/notifications"
	"echoroom/internal/observability"
)

// Canned moderator lines for rooms with no usable history.
const (
	openingPrompt    = "Hi there 👋 Just checking in — what brings you here today?"
	engagementPrompt = "I'd love to hear from someone! What's on your mind today?"
)

// summonKeyword triggers a direct moderator reply when it appears anywhere
// in a participant message.
const summonKeyword = "@mod"

// Config holds the engine's timing and threshold knobs.
type Config struct {
	TickInterval       time.Duration
	IdleThreshold      time.Duration
	OpeningGrace       time.Duration
	ModeratorCooldown  time.Duration
	StrikeLimit        int
	TickHistoryLimit   int
	SummonHistoryLimit int
}

// DefaultConfig returns production timings: a one-minute tick, three-minute
// idle threshold, and a five-minute cooldown between moderator check-ins.
func DefaultConfig() Config {
	return Config{
		TickInterval:       time.Minute,
		IdleThreshold:      3 * time.Minute,
		OpeningGrace:       time.Minute,
		ModeratorCooldown:  5 * time.Minute,
		StrikeLimit:        3,
		TickHistoryLimit:   10,
		SummonHistoryLimit: 5,
	}
}

// Channel is the slice of hub behavior the engine needs to reach the room.
type Channel interface {
	Broadcast(roomID, event string, payload interface{})
	SendTo(connID, event string, payload interface{})
	Kick(roomID, connID string)
}

// SessionStore loads room metadata for persona selection and opening grace.
type SessionStore interface {
	GetByID(ctx context.Context, id string) (*models.Session, error)
}

// MessageStore persists moderator replies and loads recent history.
type MessageStore interface {
	Create(ctx context.Context, msg *models.Message) error
	Recent(ctx context.Context, sessionID string, limit int) ([]*models.Message, error)
}

// Inbound is a participant message after it has been redacted, persisted,
// and broadcast. RawText is the original text, used for violation checks.
type Inbound struct {
	RoomID  string
	ConnID  string
	UserID  string
	Sender  string
	RawText string
}

// Engine is the automated moderator. It watches every room with at least
// one participant: a per-room timer re-engages quiet rooms, @mod mentions
// get a direct reply, and profanity earns strikes up to ejection.
type Engine struct {
	cfg      Config
	oracle   ReplyGenerator
	sessions SessionStore
	messages MessageStore
	channel  Channel
	tracker  *ActivityTracker
	strikes  *StrikeLedger
	filter   *Filter
	now      func() time.Time

	mu     sync.Mutex
	timers map[string]context.CancelFunc
}

// NewEngine wires an engine over the given stores, reply generator, and
// delivery channel.
func NewEngine(cfg Config, sessions SessionStore, messages MessageStore, oracle ReplyGenerator, channel Channel) *Engine {
	return &Engine{
		cfg:      cfg,
		oracle:   oracle,
		sessions: sessions,
		messages: messages,
		channel:  channel,
		tracker:  NewActivityTracker(),
		strikes:  NewStrikeLedger(),
		filter:   NewFilter(),
		now:      time.Now,
		timers:   make(map[string]context.CancelFunc),
	}
}

// Filter exposes the engine's content filter so the ingest path redacts
// with the exact same pattern that awards strikes.
func (e *Engine) Filter() *Filter { return e.filter }

// EnsureRoom starts the room's inactivity timer if one isn't running.
// Safe to call on every join; at most one timer exists per room.
func (e *Engine) EnsureRoom(roomID string) {
	e.mu.Lock()
	if _, running := e.timers[roomID]; running {
		e.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.timers[roomID] = cancel
	e.mu.Unlock()

	go e.runTicker(ctx, roomID)
}

// TeardownRoom stops the room's timer and drops its activity record.
// Called when the last participant leaves; the timer never re-arms itself.
func (e *Engine) TeardownRoom(roomID string) {
	e.mu.Lock()
	cancel, running := e.timers[roomID]
	if running {
		delete(e.timers, roomID)
	}
	e.mu.Unlock()

	if running {
		cancel()
	}
	e.tracker.Clear(roomID)
}

// Watching reports whether the room currently has an inactivity timer.
func (e *Engine) Watching(roomID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.timers[roomID]
	return ok
}

// RecordActivity marks the room active. Joins, typing, and speaking count
// as activity even though they produce no message.
func (e *Engine) RecordActivity(roomID string) {
	e.tracker.Touch(roomID)
}

// ClearStrikes drops a connection's strike count on disconnect.
func (e *Engine) ClearStrikes(connID string) {
	e.strikes.Clear(connID)
}

// Shutdown stops every room timer.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	for roomID, cancel := range e.timers {
		cancel()
		delete(e.timers, roomID)
	}
	e.mu.Unlock()
}

// HandleMessage evaluates a participant message for moderator reactions.
// Called after the message has been redacted, stored, and broadcast, so
// any moderator reply is ordered after the message that provoked it.
func (e *Engine) HandleMessage(ctx context.Context, msg Inbound) {
	e.tracker.Touch(msg.RoomID)

	if msg.Sender == models.ModeratorName {
		return
	}

	if strings.Contains(strings.ToLower(msg.RawText), summonKeyword) {
		e.handleSummon(ctx, msg.RoomID)
		return
	}

	if e.filter.ContainsViolation(msg.RawText) {
		e.handleViolation(ctx, msg)
	}
}

func (e *Engine) handleSummon(ctx context.Context, roomID string) {
	history, err := e.recentChronological(ctx, roomID, e.cfg.SummonHistoryLimit)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to load history for summon",
			"room_id", roomID, "error", err)
		return
	}

	category := "General"
	if session, err := e.sessions.GetByID(ctx, roomID); err == nil {
		category = session.Category
	}

	reply := e.oracle.GenerateReply(ctx, history, category, true)
	e.say(ctx, roomID, reply, "summon")
}

func (e *Engine) handleViolation(ctx context.Context, msg Inbound) {
	count := e.strikes.Increment(msg.ConnID)
	observability.ModerationStrikes.Inc()

	e.channel.SendTo(msg.ConnID, notifications.EventWarning, map[string]string{
		"message": fmt.Sprintf("⚠️ Inappropriate language detected. Strike %d/%d", count, e.cfg.StrikeLimit),
	})
	e.say(ctx, msg.RoomID,
		fmt.Sprintf("@%s, please watch your language. This is strike %d/%d.", msg.Sender, count, e.cfg.StrikeLimit),
		"strike")

	if count < e.cfg.StrikeLimit {
		return
	}

	e.say(ctx, msg.RoomID,
		fmt.Sprintf("@%s has been removed from the chat for repeated violations.", msg.Sender),
		"ejection")
	e.channel.Broadcast(msg.RoomID, notifications.EventUserKicked, map[string]string{"user": msg.Sender})
	e.channel.Kick(msg.RoomID, msg.ConnID)
	e.strikes.Clear(msg.ConnID)
	observability.ModerationEjections.Inc()
}

func (e *Engine) runTicker(ctx context.Context, roomID string) {
	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.tick(ctx, roomID)
		}
	}
}

// tick runs one inactivity evaluation for the room.
func (e *Engine) tick(ctx context.Context, roomID string) {
	idle, known := e.tracker.IdleFor(roomID)
	if !known || idle < e.cfg.IdleThreshold {
		return
	}

	history, err := e.messages.Recent(ctx, roomID, e.cfg.TickHistoryLimit)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to load history for tick",
			"room_id", roomID, "error", err)
		return
	}
	session, err := e.sessions.GetByID(ctx, roomID)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to load session for tick",
			"room_id", roomID, "error", err)
		return
	}

	now := e.now()

	// Fresh room: give participants an opening grace before the first nudge.
	if len(history) == 0 {
		if now.Sub(session.CreatedAt) > e.cfg.OpeningGrace {
			e.say(ctx, roomID, openingPrompt, "opening")
		}
		return
	}

	// The moderator spoke recently; don't pile on.
	newest := history[0]
	if newest.IsModerator() && now.Sub(newest.CreatedAt) < e.cfg.ModeratorCooldown {
		return
	}

	var lastHuman *models.Message
	for _, m := range history {
		if !m.IsModerator() {
			lastHuman = m
			break
		}
	}
	if lastHuman == nil {
		// Only moderator messages on record and the cooldown has lapsed.
		e.say(ctx, roomID, engagementPrompt, "engagement")
		return
	}

	if now.Sub(lastHuman.CreatedAt) > e.cfg.IdleThreshold {
		chronological := reverseMessages(history)
		reply := e.oracle.GenerateReply(ctx, chronological, session.Category, false)
		e.say(ctx, roomID, reply, "inactivity")
	}
}

// say persists a moderator message, broadcasts it, and counts it as room
// activity. The reply is dropped if it cannot be persisted, keeping the
// store and the room's view consistent.
func (e *Engine) say(ctx context.Context, roomID, text, trigger string) {
	msg := &models.Message{
		SessionID: roomID,
		UserID:    models.ModeratorUserID,
		Sender:    models.ModeratorName,
		Text:      text,
	}
	if err := e.messages.Create(ctx, msg); err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to persist moderator message",
			"room_id", roomID, "trigger", trigger, "error", err)
		return
	}

	e.channel.Broadcast(roomID, notifications.EventReceiveMessage, msg)
	e.tracker.Touch(roomID)
	observability.ModeratorReplies.WithLabelValues(trigger).Inc()
	observability.MessageThroughput.WithLabelValues(roomID, "moderator").Inc()
}

func (e *Engine) recentChronological(ctx context.Context, roomID string, limit int) ([]*models.Message, error) {
	history, err := e.messages.Recent(ctx, roomID, limit)
	if err != nil {
		return nil, err
	}
	return reverseMessages(history), nil
}

func reverseMessages(msgs []*models.Message) []*models.Message {
	out := make([]*models.Message, len(msgs))
	for i, m := range msgs {
		out[len(msgs)-1-i] = m
	}
	return out
}
