// Package script defines the capability the paint core uses to reach into a
// scripting sandbox.
//
// The core never evaluates script source itself. It only holds opaque
// Values handed out by a Bridge and asks the Bridge to construct, call and
// inspect them. Every operation that can run user code is fallible: a
// thrown exception is returned as an *Exception and is also left pending on
// the Bridge until ClearPendingException is called, mirroring how embedding
// APIs of script engines report errors.
package script
