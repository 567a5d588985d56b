package physics

// Translator turns collision notifications into collision events by resolving
// collider handles to the entities owning them.
type Translator struct {
	Colliders *Registry[ColliderHandle]
}

// Translate emits one CollisionEvent per notification in order. A notification
// referencing a collider that is not registered anymore, e.g. because its entity was
// despawned in the same tick, is dropped silently.
func (t Translator) Translate(notifications []CollisionNotification, emit func(CollisionEvent)) (emitted, dropped int) {
	for _, notification := range notifications {
		entity1, ok1 := t.Colliders.Entity(notification.ColliderA)
		entity2, ok2 := t.Colliders.Entity(notification.ColliderB)

		if !ok1 || !ok2 {
			dropped += 1
			continue
		}

		emit(CollisionEvent{
			Entity1: entity1,
			Entity2: entity2,
			Flags:   notification.Flags,
			Kind:    notification.Kind,
		})

		emitted += 1
	}

	return emitted, dropped
}
