// Package renderctx implements the 2D rendering context handed to paint
// callbacks. It is a thin, canvas-flavoured facade over a gg drawing
// context whose bitmap is resized in place for every draw.
package renderctx
