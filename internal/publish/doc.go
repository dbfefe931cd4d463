// Package publish announces finished paint images to a socket.io server.
package publish
