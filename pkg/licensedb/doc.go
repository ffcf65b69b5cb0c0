// Package licensedb keeps the GitHub license catalogue on disk.
//
// The catalogue (permissions, conditions and limitations of each license)
// is expensive to fetch unauthenticated, so it is stored as a JSON
// snapshot and reused for 30 days:
//
//	{"version": 1, "timestamp": 1718000000, "data": {"mit": {...}}}
//
// A [Store] reads and writes that file. [Fetch] returns a [Database],
// taking it from a fresh snapshot when possible and from the GitHub API
// otherwise, writing the snapshot back once. A Database satisfies
// licenses.Catalogue, which is how conditions such as "disclose-source"
// reach the restrictive classification.
package licensedb
