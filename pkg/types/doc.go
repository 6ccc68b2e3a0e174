// Package types defines the entity types, configuration, and standard
// error values shared across the colporter conversion pipeline.
package types
