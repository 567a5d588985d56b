package physics

import (
	"log/slog"
)

// EventHandler receives collision events from the engine. The engine calls it
// synchronously from within Engine.Step and when colliders are removed.
type EventHandler interface {
	HandleCollisionEvent(notification CollisionNotification)
	HandleContactForceEvent(event ContactForceEvent) error
}

// ContactForceHandler can be plugged into the CollisionEventHandler to
// process contact force events.
type ContactForceHandler func(event ContactForceEvent) error

// CollisionEventHandler forwards collision notifications into a NotificationChannel.
// It is safe to be called from any goroutine.
type CollisionEventHandler struct {
	Sender        *NotificationSender
	ContactForces ContactForceHandler
}

func (h *CollisionEventHandler) HandleCollisionEvent(notification CollisionNotification) {
	if err := h.Sender.Send(notification); err != nil {
		slog.Warn(
			"Failed to publish collision notification",
			slog.String("err", err.Error()),
			slog.Any("colliderA", notification.ColliderA),
			slog.Any("colliderB", notification.ColliderB),
		)
	}
}

func (h *CollisionEventHandler) HandleContactForceEvent(event ContactForceEvent) error {
	if h.ContactForces == nil {
		return &NotSupportedError{Operation: "contact force events"}
	}

	return h.ContactForces(event)
}
