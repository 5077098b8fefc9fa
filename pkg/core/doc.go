// Package core holds the domain of butler: library items, annotation notes and
// the retention rules that decide which library folders may be culled.
//
// Nothing in this package touches the filesystem directly. Storage, the library
// listing and the dashboard injector are reached through the ports declared in
// ports.go, so the engine can be exercised with in-memory fakes.
//
// Data flows one way during Detect (library folder -> Item -> annotation write)
// and the opposite way during Cull (annotation read -> Verdict -> folder delete).
package core
