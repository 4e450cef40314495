// Package harness provides the CLI, configuration, and logging scaffolding
// shared by the cmd/ example programs (philosophers, graph, looping). None
// of it is part of the locking library itself; it exists so the three
// harnesses don't each reinvent flag binding and structured logging.
package harness
