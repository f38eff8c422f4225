// Package notify raises desktop notifications for warning advice while monitoring.
package notify

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/hpungsan/avrora/internal/advisor"
	"github.com/hpungsan/avrora/internal/clock"
	"github.com/hpungsan/avrora/internal/config"
	"github.com/hpungsan/avrora/internal/ops"
)

// AppName is shown as the notification source.
const AppName = "Avrora"

// SendFunc delivers one notification.
type SendFunc func(title, message string) error

// Desktop sends through the OS notification center.
func Desktop(title, message string) error {
	beeep.AppName = AppName
	return beeep.Notify(title, message, "")
}

// Notifier periodically evaluates today's advice and notifies each warning
// topic at most once per day.
type Notifier struct {
	store   ops.Store
	cfg     *config.Config
	advisor *advisor.Advisor
	send    SendFunc
	logger  *log.Logger

	mu   sync.Mutex
	sent map[string]bool // date + topic
}

// New creates a Notifier. A nil send uses Desktop; a nil logger discards.
func New(store ops.Store, cfg *config.Config, adv *advisor.Advisor, send SendFunc, logger *log.Logger) *Notifier {
	if send == nil {
		send = Desktop
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Notifier{
		store:   store,
		cfg:     cfg,
		advisor: adv,
		send:    send,
		logger:  logger,
		sent:    make(map[string]bool),
	}
}

// Run calls Check every interval until ctx is cancelled.
func (n *Notifier) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.Check(ctx)
		}
	}
}

// Check evaluates advice once and returns how many notifications were sent.
func (n *Notifier) Check(ctx context.Context) int {
	out := ops.Advice(ctx, n.store, n.cfg, n.advisor)
	date := clock.DateKey(n.store.Now())

	n.mu.Lock()
	defer n.mu.Unlock()

	sent := 0
	for _, item := range out.Items {
		if item.Kind != advisor.KindWarning {
			continue
		}
		key := date + "/" + string(item.Topic)
		if n.sent[key] {
			continue
		}
		if err := n.send(AppName, item.Message); err != nil {
			n.logger.Printf("notification failed: %v", err)
			continue
		}
		n.sent[key] = true
		sent++
	}
	return sent
}
