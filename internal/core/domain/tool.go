package domain

// ToolInfo describes one operation exposed at the tool boundary.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ToolFailure is the result document of a failed tool invocation.
type ToolFailure struct {
	Error string    `json:"error"`
	Kind  ErrorKind `json:"kind"`
}
