// Package repo defines the generic Repository interface backing graph-stored
// entities.
package repo

import "context"

// Repository is a generic store interface. Merge is an atomic
// insert-if-absent keyed on a single property; concurrent merges on the same
// key yield one node.
type Repository[T any, ID comparable] interface {
	Get(ctx context.Context, id ID) (T, error)
	List(ctx context.Context, opts ListOpts) ([]T, error)
	Merge(ctx context.Context, mergeKey string, entity T) (T, error)
	FindBy(ctx context.Context, prop string, value any) (T, bool, error)
	Delete(ctx context.Context, id ID) error
}

// ListOpts controls pagination for List operations.
type ListOpts struct {
	Offset int
	Limit  int
}
