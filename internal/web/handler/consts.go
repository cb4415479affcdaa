package handler

const (
	// APIPrefix is the base path of every API route.
	APIPrefix = "/api/v1"

	// RootPath is the root path of a route group.
	RootPath = "/"

	// IDPath is the path of a single entity of a route group.
	IDPath = "/:id"

	// ParamID is the name of the entity id route parameter.
	ParamID = "id"

	msgInternal = "Internal Server Error"
)
