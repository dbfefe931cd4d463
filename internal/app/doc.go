// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle, decoupled
// from any specific entrypoint like a CLI or server.
//
// An App loads a project model, starts one worklet scope per declared
// worklet, performs the declared draws and, when asked to, keeps serving
// draws over HTTP.
package app
