// Package connectors provides implementations of the RemoteSource port
// for the supported document sources. Each connector knows how to list
// and fetch files from one backend (Google Drive, local filesystem).
package connectors
