// Package repository holds the immutable medal record set shared by every
// aggregation call.
package repository

import "golang.org/x/text/language"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithCollation sets the language used to sort country names.
func WithCollation(tag language.Tag) Option {
	return func(s *MemoryStore) {
		s.collation = tag
	}
}
