package notify

import (
	"errors"
	"log/slog"

	"github.com/dukerupert/fernside/internal/store"
)

// Notifier fans a notification out to every registered browser endpoint,
// pruning subscriptions the push service reports as gone.
type Notifier struct {
	service *Service
	subs    *store.PushStore
	logger  *slog.Logger
}

func NewNotifier(service *Service, subs *store.PushStore, logger *slog.Logger) *Notifier {
	return &Notifier{service: service, subs: subs, logger: logger}
}

// VAPIDPublicKey exposes the key clients need to subscribe.
func (n *Notifier) VAPIDPublicKey() string {
	return n.service.VAPIDPublicKey()
}

// SendToAll delivers the payload to every subscription.
func (n *Notifier) SendToAll(payload Payload) {
	subs, err := n.subs.List()
	if err != nil {
		n.logger.Error("list push subscriptions", "error", err)
		return
	}

	for i := range subs {
		if err := n.service.Send(&subs[i], payload); err != nil {
			if errors.Is(err, ErrExpired) {
				if err := n.subs.DeleteByEndpoint(subs[i].Endpoint); err != nil {
					n.logger.Warn("prune expired subscription", "error", err)
				}
				continue
			}
			n.logger.Warn("send push", "endpoint", subs[i].Endpoint, "error", err)
		}
	}
}

// FocusComplete announces that the focus countdown reached zero. The tag
// collapses repeated notifications on the device.
func (n *Notifier) FocusComplete() {
	n.SendToAll(Payload{
		Title: "Focus complete!",
		Body:  "Time for a 5 minute break. How did it go?",
		URL:   "/",
		Tag:   "focus-complete",
	})
}

// BreakComplete announces the end of the break.
func (n *Notifier) BreakComplete() {
	n.SendToAll(Payload{
		Title: "Break's over",
		Body:  "Ready for another focus session?",
		URL:   "/",
		Tag:   "break-complete",
	})
}
