// Package jsbridge implements script.Bridge on top of the goja JavaScript
// engine.
//
// A Runtime owns a single goja.Runtime and is bound to the goroutine that
// drives it. Besides the bridge operations it can evaluate source, expose
// host functions as globals and wrap rendering contexts as CanvasRenderingContext2D-like
// objects for paint callbacks.
package jsbridge
