// Package engine turns draw requests into images.
//
// For each request the engine looks up the paint definition, constructs its
// instance on first use, resizes the definition's rendering context and
// invokes the paint callback through the script bridge. Whatever goes
// wrong along the way (unknown name, invalidated definition, a throwing
// constructor or paint callback) the requester still receives exactly one
// image: the solid fallback image.
//
// Failure semantics differ between the two callbacks. A constructor that
// throws invalidates its definition for good, while a paint callback that
// throws only affects the draw in progress.
package engine
