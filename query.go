package kesko

import (
	"fmt"
	"iter"
	"reflect"
)

// Query gives a system access to all entities matching T. T can be a component type C,
// a pointer *C to modify the component in place, or a struct whose exported fields are
// any of EntityId, C, *C, Option[C], OptionMut[C], Has[C], With[C] and Without[C].
//
//	func moveSystem(query Query[struct {
//	   Transform *Transform
//	   Velocity  Velocity
//	   _         Without[Frozen]
//	}]) { ... }
type Query[T any] struct {
	world  *World
	parsed *parsedQuery
}

func (*Query[T]) init(world *World) SystemParamState {
	parsed, err := parseQuery(reflect.TypeFor[T]())
	if err != nil {
		panic(fmt.Sprintf("failed to parse query of type %s: %s", reflect.TypeFor[T](), err))
	}

	q := Query[T]{world: world, parsed: parsed}
	return valueSystemParamState(reflect.ValueOf(q))
}

// Items iterates over all entities matching the query in spawn order.
func (q Query[T]) Items() iter.Seq[T] {
	return func(yield func(T) bool) {
		var target T
		value := reflect.ValueOf(&target).Elem()

		for entity := range q.world.storage.All() {
			if !q.parsed.Matches(entity) {
				continue
			}

			q.parsed.Fill(value, entity)

			if !yield(target) {
				return
			}
		}
	}
}

// Get returns the query item of the given entity, if the entity matches the query.
func (q Query[T]) Get(entityId EntityId) (T, bool) {
	var target T

	entity, ok := q.world.storage.Get(entityId)
	if !ok || !q.parsed.Matches(entity) {
		return target, false
	}

	q.parsed.Fill(reflect.ValueOf(&target).Elem(), entity)
	return target, true
}

// Single returns the only item of the query. It returns false if the query
// matches no entity or more than one.
func (q Query[T]) Single() (T, bool) {
	var result T
	var count int

	for item := range q.Items() {
		count += 1
		if count > 1 {
			var tZero T
			return tZero, false
		}

		result = item
	}

	return result, count == 1
}

func (q Query[T]) Count() int {
	var count int
	for entity := range q.world.storage.All() {
		if q.parsed.Matches(entity) {
			count += 1
		}
	}

	return count
}

type fieldKind uint8

const (
	fieldEntityId fieldKind = iota
	fieldValue
	fieldPointer
	fieldOption
	fieldHas
	fieldWith
	fieldWithout
)

// queryFieldMarker is implemented by the pointer types of the special query fields.
type queryFieldMarker interface {
	queryField() (fieldKind, reflect.Type)
}

// componentSetter is implemented by the pointer types of Option, OptionMut and Has.
type componentSetter interface {
	setComponent(ptr reflect.Value)
}

type queryField struct {
	// index of the field in the target struct, -1 for the target itself
	index         int
	kind          fieldKind
	componentType reflect.Type
}

type parsedQuery struct {
	fields []queryField
}

func parseQuery(ty reflect.Type) (*parsedQuery, error) {
	field, ok, err := parseQueryField(ty, -1)
	if err != nil {
		return nil, err
	}

	if ok {
		if field.kind != fieldEntityId && field.kind != fieldValue && field.kind != fieldPointer {
			return nil, fmt.Errorf("%s can only be used as a field of a query struct", ty)
		}

		return &parsedQuery{fields: []queryField{field}}, nil
	}

	if ty.Kind() != reflect.Struct {
		return nil, fmt.Errorf("unsupported query type %s", ty)
	}

	var parsed parsedQuery

	for idx := range ty.NumField() {
		structField := ty.Field(idx)

		field, ok, err := parseQueryField(structField.Type, idx)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", structField.Name, err)
		}

		if !ok {
			return nil, fmt.Errorf("field %s has unsupported type %s", structField.Name, structField.Type)
		}

		// filters carry no value and may be unexported or blank
		needsValue := field.kind != fieldWith && field.kind != fieldWithout
		if needsValue && !structField.IsExported() {
			return nil, fmt.Errorf("field %s must be exported", structField.Name)
		}

		parsed.fields = append(parsed.fields, field)
	}

	return &parsed, nil
}

func parseQueryField(ty reflect.Type, index int) (queryField, bool, error) {
	switch {
	case ty == reflect.TypeFor[EntityId]():
		return queryField{index: index, kind: fieldEntityId}, true, nil

	case ty.Kind() != reflect.Pointer && reflect.PointerTo(ty).Implements(reflect.TypeFor[queryFieldMarker]()):
		kind, componentType := reflect.New(ty).Interface().(queryFieldMarker).queryField()
		return queryField{index: index, kind: kind, componentType: componentType}, true, nil

	case isComponentType(ty):
		return queryField{index: index, kind: fieldValue, componentType: ty}, true, nil

	case ty.Kind() == reflect.Pointer && isComponentType(ty.Elem()):
		return queryField{index: index, kind: fieldPointer, componentType: ty.Elem()}, true, nil

	default:
		return queryField{}, false, nil
	}
}

func (p *parsedQuery) Matches(entity *entity) bool {
	for _, field := range p.fields {
		switch field.kind {
		case fieldValue, fieldPointer, fieldWith:
			if !entity.has(field.componentType) {
				return false
			}

		case fieldWithout:
			if entity.has(field.componentType) {
				return false
			}
		}
	}

	return true
}

// Fill writes the values of the entity into the target. The target must be addressable.
func (p *parsedQuery) Fill(target reflect.Value, entity *entity) {
	for _, field := range p.fields {
		value := target
		if field.index >= 0 {
			value = target.Field(field.index)
		}

		switch field.kind {
		case fieldEntityId:
			value.SetUint(uint64(entity.Id))

		case fieldValue:
			ptr, _ := entity.get(field.componentType)
			value.Set(ptr.Elem())

		case fieldPointer:
			ptr, _ := entity.get(field.componentType)
			value.Set(ptr)

		case fieldOption, fieldHas:
			ptr, _ := entity.get(field.componentType)
			value.Addr().Interface().(componentSetter).setComponent(ptr)
		}
	}
}
