// Command kgstore is a thin local operator tool for driving a kgstore graph
// store directly: initializing it, writing nodes/relations, and running
// the read-side operations (search, explore, path, chain) by hand. It has
// no RPC surface; agent-facing integration is a separate front-end.
package main

func main() {
	Execute()
}
