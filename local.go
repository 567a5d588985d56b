package kesko

import "reflect"

// Local is state owned by a single system that survives between runs.
// Systems take it as a pointer, e.g. *Local[[]CollisionEvent].
type Local[T any] struct {
	Value T
}

func (l *Local[T]) init(*World) SystemParamState {
	return l
}

func (l *Local[T]) getValue() reflect.Value {
	return reflect.ValueOf(l)
}

func (*Local[T]) cleanupValue() {}

func (*Local[T]) valueType() reflect.Type {
	return reflect.TypeFor[*Local[T]]()
}
