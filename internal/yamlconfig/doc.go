// Package yamlconfig loads project configuration written in YAML. It
// produces the same config.Model as the HCL loader:
//
//	worklets:
//	  - name: rings
//	    scripts: [rings.js]
//	    script_timeout: 2s
//	draws:
//	  - worklet: rings
//	    paint: ring
//	    width: 64
//	    height: 64
//	    output: ring.png
package yamlconfig
