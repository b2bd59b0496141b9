// Package store owns the session state: the canonical dataset committed by
// the last successful import, and its persistence across restarts through a
// small file-backed key-value blob store. The dataset is single-writer and
// always replaced wholesale — imports commit atomically, resets clear, and
// everything else only reads.
package store
