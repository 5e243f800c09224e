package server

// Server is the lifecycle contract the entrypoint drives.
//
// RunServer blocks until a stop signal arrives or the listener fails;
// Shutdown drains in-flight requests and releases the listener.
type Server interface {
	// RunServer starts serving and blocks until the server stops.
	RunServer()

	// Shutdown gracefully stops the server.
	Shutdown()
}
