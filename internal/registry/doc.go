// Package registry owns the paint definitions of one worklet scope.
//
// A paint definition binds a name to a script constructor, the paint
// function found on its prototype, some informational metadata and a
// rendering context that is reused by every draw of that name.
// Registration validates the constructor step by step, in a fixed order,
// and either inserts a complete definition or leaves the registry
// untouched.
package registry
