// Package deps checks that the external binaries a transcription backend
// shells out to are installed before a run starts.
package deps
