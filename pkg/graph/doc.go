// Package graph builds the undirected connection graph declared by point
// codes.
//
// Each visible point may ask, through its code, to be joined to the most
// recent earlier point of the same classification (the chain anchor) and to
// any number of points named explicitly by number. [Build] scans the points
// in input order, resolves those directives and returns a [Graph] holding
// every accepted connection exactly once.
//
// # Canonical Edges
//
// Connections are undirected. An [Edge] always stores the smaller point
// number in A, so (3, 1) and (1, 3) are the same edge:
//
//	graph.Key(3, 1) == graph.Key(1, 3) // Edge{A: 1, B: 3}
//
// Inserting an edge that already exists is a no-op.
//
// # Policies
//
// Historical exports of survey software disagree on a few corner cases of
// the connection rule. A [Policy] switches each variant on independently:
//
//	graph.Canonical()  // anchor overwrite, explicit targets always honored
//	graph.Legacy()     // explicit targets replace the chain link
//
// The presets differ on explicit targets that repeat the chain link. For
// 1("10"),2("10..1") Canonical draws {1,2} and Legacy draws nothing; for
// 1,2("10"),3("10..1") Canonical draws {2,3},{1,3} and Legacy only {1,3}.
//
// [ParsePolicy] maps the names "canonical" and "legacy" to their presets.
//
// # Serialization
//
// Graphs serialize to a small JSON document:
//
//	{
//	  "nodes": [1, 2, 3],
//	  "edges": [{"a": 1, "b": 3}],
//	  "adjacency": {"1": [3], "3": [1]}
//	}
//
// # Concurrency
//
// Build keeps all scan state local to the call. A built Graph is read-only
// and safe for concurrent readers.
package graph
