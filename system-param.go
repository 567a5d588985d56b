package kesko

import "reflect"

// SystemParam is an interface to give a type special behaviour when it is used
// as a parameter to a system.
//
// While a system is being prepared, each parameter is checked if it fulfills
// the SystemParam interface. If a parameter type does, a new instance will be allocate
// and the init method will be called.
//
// See Local, Commands or Query for some implementations of SystemParam.
type SystemParam interface {
	// init will be called while the system is being prepared.
	// It should setup everything as needed, e.g. allocate memory
	init(world *World) SystemParamState
}

// SystemParamState is the state produced by SystemParam.
type SystemParamState interface {
	// getValue returns the value that should be passed to the system.
	getValue() reflect.Value

	// cleanupValue will be called once the system is executed. It is used
	// to e.g. apply a Commands object against the world
	cleanupValue()

	// valueType returns the exact type that getValue will return. This is used
	// while preparing
	valueType() reflect.Type
}

// valueSystemParamState is a simple implementation of SystemParamState
// that just returns a constant value
type valueSystemParamState reflect.Value

func (s valueSystemParamState) getValue() reflect.Value {
	return reflect.Value(s)
}

func (s valueSystemParamState) valueType() reflect.Type {
	return reflect.Value(s).Type()
}

func (valueSystemParamState) cleanupValue() {
	// do nothing
}

// resourceSystemParamState looks up a resource every time the system runs,
// resources may be inserted after the system was prepared.
type resourceSystemParamState struct {
	world        *World
	resourceType reflect.Type
	pointer      bool
}

func (s *resourceSystemParamState) getValue() reflect.Value {
	ptr, ok := s.world.resources[s.resourceType]
	if !ok {
		panic("resource does not exist: " + s.resourceType.String())
	}

	if s.pointer {
		return ptr
	}

	return ptr.Elem()
}

func (s *resourceSystemParamState) valueType() reflect.Type {
	if s.pointer {
		return reflect.PointerTo(s.resourceType)
	}

	return s.resourceType
}

func (*resourceSystemParamState) cleanupValue() {
	// do nothing
}
