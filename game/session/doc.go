// Package session provides in-memory session management for the Card Match Game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique 4-character session ID generation
//   - Expiry of idle sessions
//
// Each session owns one engine instance built from its level. Session ids are
// case-insensitive. Nothing is persisted: a restart of the server starts
// with no sessions.
//
// Usage:
//
//	manager := session.NewManager()
//
//	// Create a new session with a generated id
//	sess, err := manager.Create("", level)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve existing session
//	sess, err = manager.Get(sess.ID)
//
//	// Drop sessions idle for more than an hour
//	removed := manager.CleanupExpiredSessions(time.Hour)
package session
