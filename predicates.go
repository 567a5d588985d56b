package kesko

// ResourceExists is a predicate that checks if a resource of type T exists.
//
//	app.AddSystems(Update, System(drawDebug).RunIf(ResourceExists[DebugConfig]))
func ResourceExists[T any](world *World) bool {
	_, ok := ResourceOf[T](world)
	return ok
}
