// Package imagecache provides the process-wide, thread-safe store that turns
// raw pixel buffers into durable image keys.
//
// # Concurrency Model
//
// Every worklet scope runs on its own goroutine but they all register
// images with the same Cache. Registration must therefore be safe from any
// goroutine. The cache uses a sync.Map because:
//   - Keys are allocated from an atomic counter, so two registrations never
//     contend on the same key
//   - Entries are written once and read a few times by the consumer
//   - Consumers release entries independently of the producers
package imagecache
