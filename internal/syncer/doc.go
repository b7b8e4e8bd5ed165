// Package syncer implements the list, upload, set_metadata and download
// workflows between local script files and the RightScript service.
//
// Each workflow takes its options as explicit arguments; an Engine holds
// only its collaborators (the remote, an output writer and a logger).
package syncer
