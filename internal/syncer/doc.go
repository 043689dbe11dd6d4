// Package syncer regenerates the icon list wiki pages from the catalog.
//
// Each page moves through Init, Loaded, Rendered and then either Unchanged or
// Composed; composed pages are committed (repo mode) or written to the output
// directory (file mode). All pages of a run are processed concurrently against
// one shared working copy, and a run that committed anything pushes exactly
// once at the end.
package syncer
