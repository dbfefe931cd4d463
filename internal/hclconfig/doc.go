// Package hclconfig loads project configuration written in HCL.
//
//	worklet "rings" {
//	  scripts        = ["rings.js"]
//	  script_timeout = "2s"
//	}
//
//	draw "rings" "ring" {
//	  width  = 64
//	  height = 64
//	  output = "ring-${env.USER}.png"
//	}
//
// Expressions are evaluated with an `env` object holding the process
// environment and a small set of cty standard library functions.
package hclconfig
