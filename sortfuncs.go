package arrayapi

import (
	"github.com/gomlx/arrayapi/sorting"
	"github.com/gomlx/arrayapi/types"
)

// SortOptions configure Sort and ArgSort.
type SortOptions struct {
	// Axis to sort along, negative values counting from the end.
	Axis int

	// Descending reverses the order. NaNs sort last ascending and therefore
	// first descending.
	Descending bool

	// Stable keeps the original relative order of equal elements.
	Stable bool
}

// DefaultSortOptions returns the conventional configuration: last axis,
// ascending, stable.
func DefaultSortOptions() SortOptions {
	return SortOptions{Axis: -1, Stable: true}
}

// Sort returns x ordered along the chosen axis.
func (ns *Namespace) Sort(x types.Array, opts SortOptions) (*types.Result, error) {
	return sorting.Sort(x, opts.Axis, sorting.Options{
		Descending: opts.Descending,
		Stable:     opts.Stable,
		Parallel:   ns.parallel,
	})
}

// ArgSort returns the index permutation that sorts x along the chosen axis,
// with the configured index dtype.
func (ns *Namespace) ArgSort(x types.Array, opts SortOptions) (*types.Result, error) {
	return sorting.ArgSort(x, opts.Axis, ns.defaults.Index, sorting.Options{
		Descending: opts.Descending,
		Stable:     opts.Stable,
		Parallel:   ns.parallel,
	})
}
