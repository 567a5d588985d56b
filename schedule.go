package kesko

import (
	"fmt"
	"slices"

	"github.com/oliverbestmann/kesko/internal/set"
)

type schedule struct {
	ids set.Set[SystemId]

	// systems in the order they were added
	added []*scheduledSystem

	// systems in execution order
	systems []*scheduledSystem
}

func newSchedule() *schedule {
	return &schedule{}
}

type scheduledSystem struct {
	SystemConfig
	system     *preparedSystem
	predicates []*preparedSystem
}

func (s *schedule) AddSystem(system *scheduledSystem) {
	if !s.ids.Insert(system.Id) {
		panic(fmt.Sprintf("system %s already exists in schedule", system.Name))
	}

	s.added = append(s.added, system)
}

func (s *schedule) UpdateSystemOrdering() error {
	ordering, err := topologicalSystemOrder(s.added)
	if err != nil {
		return err
	}

	s.systems = ordering
	return nil
}

// topologicalSystemOrder orders the systems so that every before/after constraint
// is satisfied. Systems without a constraint between them keep their insertion order.
// Constraints referencing systems not in the list are ignored.
func topologicalSystemOrder(systems []*scheduledSystem) ([]*scheduledSystem, error) {
	indexOf := map[SystemId]int{}
	for idx, system := range systems {
		indexOf[system.Id] = idx
	}

	// edges[a] contains all systems that must run after a
	edges := make([][]int, len(systems))
	inDegree := make([]int, len(systems))

	addEdge := func(from, to int) {
		if slices.Contains(edges[from], to) {
			return
		}

		edges[from] = append(edges[from], to)
		inDegree[to]++
	}

	for idx, system := range systems {
		for _, before := range system.before {
			if other, ok := indexOf[before]; ok {
				addEdge(idx, other)
			}
		}

		for _, after := range system.after {
			if other, ok := indexOf[after]; ok {
				addEdge(other, idx)
			}
		}
	}

	// Kahn's algorithm, always picking the ready system that was added first
	done := make([]bool, len(systems))

	var result []*scheduledSystem
	for len(result) < len(systems) {
		next := -1
		for idx := range systems {
			if !done[idx] && inDegree[idx] == 0 {
				next = idx
				break
			}
		}

		if next < 0 {
			return nil, fmt.Errorf("cycle detected in system ordering")
		}

		done[next] = true
		result = append(result, systems[next])

		for _, neighbor := range edges[next] {
			inDegree[neighbor]--
		}
	}

	return result, nil
}
