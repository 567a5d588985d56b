package kesko

import (
	"fmt"
	"reflect"
)

// ErasedComponent is implemented by every component. Embed Component
// into a struct to make it a component:
//
//	type Position struct {
//	   kesko.Component[Position]
//	   X, Y float64
//	}
type ErasedComponent interface {
	isComponent()
}

type Component[C any] struct{}

func (Component[C]) isComponent() {}

// RequireComponents can be implemented by a component to automatically insert
// other components when it is added to an entity. Required components are only
// inserted if the entity does not already have a value of that type.
type RequireComponents interface {
	RequireComponents() []ErasedComponent
}

func componentTypeOf[C ErasedComponent]() reflect.Type {
	return reflect.TypeFor[C]()
}

func componentTypeOfValue(component ErasedComponent) reflect.Type {
	ty := reflect.TypeOf(component)
	if ty.Kind() == reflect.Pointer {
		ty = ty.Elem()
	}

	return ty
}

func isComponentType(ty reflect.Type) bool {
	return ty.Kind() == reflect.Struct && ty.Implements(reflect.TypeFor[ErasedComponent]())
}

// copyToHeap moves the component value onto the heap and returns a pointer to it.
func copyToHeap(component ErasedComponent) reflect.Value {
	value := reflect.ValueOf(component)
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}

	if !isComponentType(value.Type()) {
		panic(fmt.Sprintf("not a component: %s", value.Type()))
	}

	ptr := reflect.New(value.Type())
	ptr.Elem().Set(value)
	return ptr
}

// Name assigns a non unique name to an entity.
// Adding a name can be helpful for debugging.
type Name struct {
	Component[Name]
	Name string
}

// Named creates a new Name component.
func Named(name string) Name {
	return Name{Name: name}
}

func (n Name) String() string {
	return n.Name
}
