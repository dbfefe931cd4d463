// Package worklet ties the paint core to a JavaScript sandbox.
//
// A Scope owns one goja runtime together with the registry, instance store
// and engine that operate on it. Scripts are loaded into the scope and call
// the registerPaint global to define paint classes; draws are then
// requested by name. Every operation on a scope runs on the goroutine
// executing Scope.Run, one task at a time and in submission order.
package worklet
