package domain

import (
	"maps"
	"slices"
)

// EncryptionContext binds a wrapped data key to the entities allowed to unwrap it.
// Every key is an entity name and every value is ContextMarker.
type EncryptionContext map[string]string

// DeriveAuthorizationContext projects a list of entity names onto an EncryptionContext.
// Duplicates collapse, so the result does not depend on the order of entities.
func DeriveAuthorizationContext(entities []string) EncryptionContext {
	ctx := make(EncryptionContext, len(entities))
	for _, entity := range entities {
		ctx[entity] = ContextMarker
	}
	return ctx
}

// Entities returns the entity names of the context in sorted order.
func (c EncryptionContext) Entities() []string {
	return slices.Sorted(maps.Keys(c))
}

// Equal reports whether both contexts authorize the same entities.
func (c EncryptionContext) Equal(other EncryptionContext) bool {
	return maps.Equal(c, other)
}
