// Package notify implements the transient notification queue shown at the
// bottom of the screen. Each entry expires on its own timer; nothing is
// deduplicated. Entries can additionally be mirrored to chat senders
// (Telegram, Discord) filtered by kind.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/btcconvert/internal/domain"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 4 * time.Second

// Sender is the interface that each mirror channel must implement.
type Sender interface {
	// Send delivers a notification.
	Send(ctx context.Context, n domain.Notification) error
	// Name returns a human-readable identifier for the sender (e.g. "telegram").
	Name() string
}

// Notifier owns the display queue.
type Notifier struct {
	mu      sync.Mutex
	queue   []domain.Notification
	ttl     time.Duration
	now     func() time.Time
	senders []Sender
	kinds   map[domain.NotificationKind]bool // kinds mirrored to senders
	logger  *slog.Logger
}

// NewNotifier creates a Notifier. Only notifications whose kind appears in
// mirrorKinds are forwarded by Mirror; an empty list mirrors nothing.
func NewNotifier(ttl time.Duration, senders []Sender, mirrorKinds []string, logger *slog.Logger) *Notifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	kinds := make(map[domain.NotificationKind]bool, len(mirrorKinds))
	for _, k := range mirrorKinds {
		kinds[domain.NotificationKind(strings.ToLower(strings.TrimSpace(k)))] = true
	}
	return &Notifier{
		ttl:     ttl,
		now:     time.Now,
		senders: senders,
		kinds:   kinds,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// TTL returns the display duration of every notification.
func (n *Notifier) TTL() time.Duration { return n.ttl }

// Notify appends a message to the queue and returns the stored entry.
func (n *Notifier) Notify(ctx context.Context, kind domain.NotificationKind, message string) domain.Notification {
	now := n.now()
	entry := domain.Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(n.ttl),
	}

	n.mu.Lock()
	n.queue = append(n.queue, entry)
	n.mu.Unlock()

	level := slog.LevelInfo
	if kind == domain.NotificationError {
		level = slog.LevelWarn
	}
	n.logger.Log(ctx, level, "notification",
		slog.String("id", entry.ID),
		slog.String("kind", string(kind)),
		slog.String("message", message),
	)
	return entry
}

// Dismiss removes the entry with the given id. Unknown ids are ignored.
func (n *Notifier) Dismiss(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, e := range n.queue {
		if e.ID == id {
			n.queue = append(n.queue[:i], n.queue[i+1:]...)
			return
		}
	}
}

// Active returns the visible notifications, oldest first, dropping any whose
// time is up.
func (n *Notifier) Active() []domain.Notification {
	now := n.now()

	n.mu.Lock()
	defer n.mu.Unlock()

	kept := n.queue[:0]
	for _, e := range n.queue {
		if now.Before(e.ExpiresAt) {
			kept = append(kept, e)
		}
	}
	n.queue = kept

	out := make([]domain.Notification, len(kept))
	copy(out, kept)
	return out
}

// ShouldMirror reports whether an entry of this kind goes to the senders.
func (n *Notifier) ShouldMirror(kind domain.NotificationKind) bool {
	return len(n.senders) > 0 && n.kinds[kind]
}

// Mirror forwards the entry to all senders. Errors from individual senders
// are collected and returned as a combined error; one failure does not stop
// delivery to the others.
func (n *Notifier) Mirror(ctx context.Context, entry domain.Notification) error {
	if !n.ShouldMirror(entry.Kind) {
		return nil
	}

	var errs []string
	for _, s := range n.senders {
		if err := s.Send(ctx, entry); err != nil {
			n.logger.ErrorContext(ctx, "sender failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
		} else {
			n.logger.DebugContext(ctx, "notification mirrored",
				slog.String("sender", s.Name()),
				slog.String("id", entry.ID),
			)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}

// title is the heading used by chat senders.
func title(kind domain.NotificationKind) string {
	if kind == domain.NotificationError {
		return "btcconvert error"
	}
	return "btcconvert"
}
