package kesko

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// SystemId identifies a system. It is derived from the code pointer of the
// systems function, closures created from the same function literal share an id.
type SystemId uint64

// AnySystem is a function, a SystemConfig or a value implementing AsSystemConfigs.
type AnySystem any

type AsSystemConfigs interface {
	AsSystemConfigs() []SystemConfig
}

func asSystemConfig(value AnySystem) SystemConfig {
	switch value := value.(type) {
	case SystemConfig:
		return value

	default:
		fn := reflect.ValueOf(value)

		return SystemConfig{
			Id:   systemIdOf(fn),
			Name: systemNameOf(fn),
			fn:   fn,
		}
	}
}

func asSystemConfigs(values ...AnySystem) []SystemConfig {
	var configs []SystemConfig

	for _, value := range values {
		switch value := value.(type) {
		case []SystemConfig:
			configs = append(configs, value...)

		case AsSystemConfigs:
			configs = append(configs, value.AsSystemConfigs()...)

		default:
			configs = append(configs, asSystemConfig(value))
		}
	}

	return configs
}

func systemIdOf(fn reflect.Value) SystemId {
	if fn.Kind() != reflect.Func {
		panic(fmt.Sprintf("system is not a function: %s", fn.Type()))
	}

	return SystemId(uintptr(fn.UnsafePointer()))
}

func systemNameOf(fn reflect.Value) string {
	if fn.Kind() != reflect.Func {
		return "<invalid>"
	}

	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return "<unknown>"
	}

	name := f.Name()

	// strip the package path
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		name = name[idx+1:]
	}

	return name
}

// SystemConfig describes a single system and its ordering constraints.
type SystemConfig struct {
	Id   SystemId
	Name string

	// the actual fn, must be a function
	fn         reflect.Value
	before     []SystemId
	after      []SystemId
	predicates []AnySystem
}

// System groups one or more systems to configure them together.
func System(systems ...AnySystem) Systems {
	return Systems{
		systems: systems,
	}
}

// Systems is a group of systems sharing the same configuration.
type Systems struct {
	systems []AnySystem
	chain   bool

	after      []SystemId
	before     []SystemId
	predicates []AnySystem
}

func (s Systems) AsSystemConfigs() []SystemConfig {
	var systems []SystemConfig

	var previous []SystemConfig

	for _, value := range s.systems {
		current := asSystemConfigs(value)

		if s.chain {
			// every system of the previous element runs before
			// every system of the current one
			for idx := range current {
				for _, prev := range previous {
					current[idx].after = appendClone(current[idx].after, prev.Id)
				}
			}
		}

		systems = append(systems, current...)
		previous = current
	}

	for idx := range systems {
		system := &systems[idx]
		system.after = appendClone(system.after, s.after...)
		system.before = appendClone(system.before, s.before...)
		system.predicates = appendClone(system.predicates, s.predicates...)
	}

	return systems
}

// Chain runs the systems of this group one after another in the order they were given.
func (s Systems) Chain() Systems {
	s.chain = true
	return s
}

func (s Systems) After(other AnySystem) Systems {
	for _, system := range asSystemConfigs(other) {
		s.after = appendClone(s.after, system.Id)
	}

	return s
}

func (s Systems) Before(other AnySystem) Systems {
	for _, system := range asSystemConfigs(other) {
		s.before = appendClone(s.before, system.Id)
	}

	return s
}

// RunIf adds a predicate to the systems. The predicate is a system itself
// and must return a bool. The systems only run if all predicates return true.
func (s Systems) RunIf(predicate AnySystem) Systems {
	s.predicates = appendClone(s.predicates, predicate)
	return s
}

// appendClone appends to a copy of the slice so value receivers never
// share their backing arrays.
func appendClone[T any](values []T, more ...T) []T {
	result := make([]T, 0, len(values)+len(more))
	result = append(result, values...)
	return append(result, more...)
}
