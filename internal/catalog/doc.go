// Package catalog builds the immutable, ordered list of synthetic tools a
// deployment exposes.
//
// A catalog is a pure function of its Variant: tool i (1-based) always gets
// the same name, description and input schema. The ten schema shapes keyed by
// flavor (i mod 10) are a closed set shared by every variant.
package catalog
