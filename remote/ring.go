package remote

// collisionRing keeps the last n collisions, overwriting the oldest one when full.
type collisionRing struct {
	values []RecordedCollision
	next   int
	full   bool
}

func newCollisionRing(capacity int) collisionRing {
	return collisionRing{values: make([]RecordedCollision, max(capacity, 1))}
}

func (r *collisionRing) Push(value RecordedCollision) {
	r.values[r.next] = value

	r.next += 1
	if r.next == len(r.values) {
		r.next = 0
		r.full = true
	}
}

func (r *collisionRing) Len() int {
	if r.full {
		return len(r.values)
	}

	return r.next
}

// Latest returns the newest limit values, oldest first.
func (r *collisionRing) Latest(limit int) []RecordedCollision {
	count := r.Len()
	if limit > 0 && limit < count {
		count = limit
	}

	result := make([]RecordedCollision, 0, count)

	start := r.next - count
	if start < 0 {
		start += len(r.values)
	}

	for idx := range count {
		result = append(result, r.values[(start+idx)%len(r.values)])
	}

	return result
}
