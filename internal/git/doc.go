// Package git provides the repository client wikilist uses to keep a local
// working copy of the wiki, commit regenerated pages and push them.
//
// The package handles:
//   - Clone-or-open of a working copy, optionally shallow
//   - Commits serialized per working copy by a FIFO lock
//   - Pushes bounded by a deadline whose late results are discarded
//   - Classification of go-git failures into auth, not-found and network errors
//   - A HEAD-commit change check used as an optional pre-check on the code repository
//
// Callers depend on the Repository interface; Client is the go-git implementation.
package git
