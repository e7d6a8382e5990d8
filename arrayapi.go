// Package arrayapi implements the semantic core of an array-computation
// namespace: shape broadcasting, dtype promotion, tensor contraction,
// value-based uniqueness and ordering, exposed behind a Namespace façade.
//
// Among its features:
//
// - Shape inference: every operation derives and validates its output shape
// before any value is computed.
// - A precomputed dtype promotion table with the usual numeric lattice
// (bool < int < float < complex) and well-defined float16/bfloat16 meets.
// - Floating-point edge cases handled explicitly: NaN-aware uniqueness and
// ordering, signed-zero aggregation.
// - Written purely in Go, no C/C++ external dependencies.
//
// The Namespace never owns storage: inputs are read-only types.Array views
// and outputs are materialized *types.Result descriptors the caller takes
// over.
package arrayapi

import (
	"github.com/gomlx/arrayapi/internal/parallel"
	"github.com/gomlx/arrayapi/promotion"
	"github.com/gomlx/arrayapi/types"
)

// Namespace is the entry point to every operation. It carries the injected
// configuration: default dtypes, the cast policy for explicit conversions,
// parallelism limits and the default device for creation operations.
//
// A Namespace is immutable after construction and safe for concurrent use.
type Namespace struct {
	defaults   promotion.Defaults
	castPolicy types.CastPolicy
	parallel   parallel.Config
	device     types.Device
}

// New creates a Namespace with the stock configuration: 64-bit default
// dtypes, wrapping casts, parallelism sized to the machine and no default
// device placement.
func New() *Namespace {
	return &Namespace{
		defaults: promotion.Default(),
		parallel: parallel.DefaultConfig(),
	}
}

// WithDefaults sets the default dtypes used when an operation must pick a
// dtype from scalar literals (or no dtype at all was given).
// It returns the modified Namespace, so calls can be chained.
func (ns *Namespace) WithDefaults(defaults promotion.Defaults) (*Namespace, error) {
	if err := defaults.Validate(); err != nil {
		return nil, err
	}
	ns.defaults = defaults
	return ns, nil
}

// WithCastPolicy sets how explicit dtype conversions treat unrepresentable
// values. It returns the modified Namespace, so calls can be chained.
func (ns *Namespace) WithCastPolicy(policy types.CastPolicy) *Namespace {
	ns.castPolicy = policy
	return ns
}

// WithParallelism sets the internal parallelism configuration.
// It returns the modified Namespace, so calls can be chained.
func (ns *Namespace) WithParallelism(cfg parallel.Config) *Namespace {
	ns.parallel = cfg
	return ns
}

// WithDevice sets the default placement given to arrays built by the
// creation operations. It returns the modified Namespace, so calls can be
// chained.
func (ns *Namespace) WithDevice(device types.Device) *Namespace {
	ns.device = device
	return ns
}

// Defaults returns the configured default dtypes.
func (ns *Namespace) Defaults() promotion.Defaults { return ns.defaults }
