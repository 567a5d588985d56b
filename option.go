package kesko

import "reflect"

// Option can be used in a query to optionally fetch a component.
type Option[C ErasedComponent] struct {
	value *C
}

func (o *Option[C]) queryField() (fieldKind, reflect.Type) {
	return fieldOption, componentTypeOf[C]()
}

func (o *Option[C]) setComponent(ptr reflect.Value) {
	o.value = nil
	if ptr.IsValid() {
		o.value = ptr.Interface().(*C)
	}
}

func (o Option[C]) Get() (C, bool) {
	return o.OrDefault(), o.value != nil
}

func (o Option[C]) OrValue(fallback C) C {
	if o.value != nil {
		return *o.value
	}

	return fallback
}

func (o Option[C]) OrDefault() C {
	var cZero C
	return o.OrValue(cZero)
}

// OptionMut is like Option but gives mutable access to the component.
type OptionMut[C ErasedComponent] struct {
	value *C
}

func (o *OptionMut[C]) queryField() (fieldKind, reflect.Type) {
	return fieldOption, componentTypeOf[C]()
}

func (o *OptionMut[C]) setComponent(ptr reflect.Value) {
	o.value = nil
	if ptr.IsValid() {
		o.value = ptr.Interface().(*C)
	}
}

func (o OptionMut[C]) Get() (*C, bool) {
	return o.value, o.value != nil
}

// Has reports in a query if the entity has a component of type C.
type Has[C ErasedComponent] struct {
	value bool
}

func (h *Has[C]) queryField() (fieldKind, reflect.Type) {
	return fieldHas, componentTypeOf[C]()
}

func (h *Has[C]) setComponent(ptr reflect.Value) {
	h.value = ptr.IsValid()
}

func (h Has[C]) Exists() bool {
	return h.value
}

// With filters a query to entities having a component of type C.
type With[C ErasedComponent] struct{}

func (*With[C]) queryField() (fieldKind, reflect.Type) {
	return fieldWith, componentTypeOf[C]()
}

// Without filters a query to entities not having a component of type C.
type Without[C ErasedComponent] struct{}

func (*Without[C]) queryField() (fieldKind, reflect.Type) {
	return fieldWithout, componentTypeOf[C]()
}
