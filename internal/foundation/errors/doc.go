// Package errors provides the classified error primitives used across wikilist.
//
// Every failure that leaves a package is a ClassifiedError carrying a category
// (not_found, io, composition, repository, timeout, config, ...), a severity and
// structured context. The CLI adapter maps categories onto process exit codes.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryRepository, "clone failed").
//		WithCause(originalErr).
//		WithContext("url", repoURL).
//		Build()
package errors
