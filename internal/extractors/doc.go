// Package extractors provides implementations of the Extractor interface
// for the supported document formats. Each extractor knows how to pull
// plain text out of one format; the Registry dispatches by MIME type
// with a file-extension fallback.
//
// Extractors are registered with the Registry at startup.
package extractors
