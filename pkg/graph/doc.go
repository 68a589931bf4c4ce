// Package graph defines the design graph types for csgkit.
// The design graph is an immutable DAG of primitives, transforms,
// boolean operations, hulls and groups that describes a solid model.
package graph
