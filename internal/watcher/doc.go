// Package watcher reloads pkghub's configuration when its file changes.
//
// The Watcher watches the directory holding config.yaml rather than the file
// itself, so editors that save by rename and `pkghub config import` are both
// seen. Bursts of events are coalesced by a debounce timer before the
// Reloader runs once.
//
// Example usage:
//
//	mgr, err := config.NewManager(path, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	w, err := watcher.New(path, mgr, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := w.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer w.Stop()
package watcher
