// Package websocket provides WebSocket transport for the Card Match Game.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - Fan-out of committed moves, undos and board updates
//   - Connection lifecycle management
//
// Architecture:
//
// A central Hub owns all connections and runs a single event loop for
// registration, unregistration and broadcast. Each client connection has a
// read pump and a write pump goroutine. The hub implements
// service.EventPublisher, so the game service pushes every committed change
// into it without knowing about sockets.
//
// Message Protocol:
//
// Outgoing messages are JSON documents, one per frame:
//
//	{"id": "<uuid>", "session_id": "ab12", "event": "move_committed",
//	 "board": {...}, "data": [ ...engine events... ]}
//
// Event names are move_committed, undo_completed and board_update. A client
// receives the current board as a board_update right after connecting.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run()
//	defer hub.Stop()
//
//	gameService := service.NewGameService(sessions, levels, service.WithEventPublisher(hub))
package websocket
