// Package imageout encodes registered paint images and stores them in
// files or uploads them to pre-signed URLs.
package imageout
