package kesko

import (
	"fmt"
	"reflect"
)

var systemParamType = reflect.TypeFor[SystemParam]()

type preparedSystem struct {
	Id   SystemId
	Name string

	// runs the system and returns its first result, if any
	Run func() any
}

func prepareSystem(w *World, config SystemConfig) *preparedSystem {
	rSystem := config.fn

	if rSystem.Kind() != reflect.Func {
		panic(fmt.Sprintf("not a function: %s", rSystem.Type()))
	}

	systemType := rSystem.Type()

	// collect a number of functions that when called will prepare the systems parameters
	var params []SystemParamState

	for idx := range systemType.NumIn() {
		inType := systemType.In(idx)

		switch {
		case inType.Implements(systemParamType):
			params = append(params, makeSystemParamState(w, inType))

		case inType.Kind() != reflect.Pointer && reflect.PointerTo(inType).Implements(systemParamType):
			params = append(params, makeSystemParamState(w, inType))

		case inType == reflect.TypeFor[*World]():
			params = append(params, valueSystemParamState(reflect.ValueOf(w)))

		case inType.Kind() == reflect.Pointer && isResourceType(inType.Elem()):
			params = append(params, &resourceSystemParamState{world: w, resourceType: inType.Elem(), pointer: true})

		case isResourceType(inType):
			params = append(params, &resourceSystemParamState{world: w, resourceType: inType})

		default:
			panic(fmt.Sprintf("Can not handle system param of type %s in %s", inType, config.Name))
		}
	}

	// verify that all the param types match their actual types
	for idx, param := range params {
		inType := systemType.In(idx)
		if !param.valueType().AssignableTo(inType) {
			panic(fmt.Sprintf("Argument %d of %s is not assignable to param value of type %s", idx, config.Name, inType))
		}
	}

	paramValues := make([]reflect.Value, len(params))

	run := func() any {
		for idx, param := range params {
			paramValues[idx] = param.getValue()
		}

		results := rSystem.Call(paramValues)

		for _, param := range params {
			param.cleanupValue()
		}

		// clear any pointers that are still in the param slice
		clear(paramValues)

		if len(results) == 0 {
			return nil
		}

		return results[0].Interface()
	}

	return &preparedSystem{
		Id:   config.Id,
		Name: config.Name,
		Run:  run,
	}
}

// isResourceType accepts structs and named types like FrameCount.
func isResourceType(ty reflect.Type) bool {
	switch ty.Kind() {
	case reflect.Struct:
		return true
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return false
	default:
		return ty.Name() != "" && ty.PkgPath() != ""
	}
}

func makeSystemParamState(world *World, ty reflect.Type) SystemParamState {
	for ty.Kind() == reflect.Pointer {
		ty = ty.Elem()
	}

	// allocate a new instance on the heap and get the value as an interface
	param := reflect.New(ty).Interface().(SystemParam)

	// initialize using the world
	return param.init(world)
}
