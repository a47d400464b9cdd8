// Package flock provides cross-platform file locking utilities.
//
// stackscope uses an exclusive, non-blocking lock on a sentinel file inside
// the preview directory so two concurrent summarize runs cannot interleave
// their artifacts. The primitives work on both Unix and Windows systems.
//
// Usage:
//
//	file, _ := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
//	if err := flock.Exclusive(file.Fd()); err != nil {
//	    // Lock not acquired - directory is in use
//	}
//	defer flock.Unlock(file.Fd())
package flock
