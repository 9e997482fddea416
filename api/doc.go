// Package api provides HTTP REST API handlers for the Card Match Game.
//
// The api package implements:
//   - Session management endpoints
//   - Click, undo and session control (restart, start, pause, resume)
//   - Undo history and legal-move hints
//   - Level listing, download and upload
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"level_id": 2}, omit for the default level)
//   - GET /api/sessions - List all sessions (sort=created|accessed, order, limit)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/board - Current board
//   - POST /api/sessions/{id}/click - Click a card ({"card_id": 3})
//   - POST /api/sessions/{id}/undo - Undo the last committed move
//   - POST /api/sessions/{id}/restart|start|pause|resume - Control the session
//   - GET /api/sessions/{id}/history - Undo history with pagination
//   - GET /api/sessions/{id}/hints - Cards that can currently be clicked
//
// Levels:
//   - GET /api/levels - List valid levels
//   - GET /api/levels/{id} - Level in file format
//   - POST /api/levels - Validate and store a level
//
// A rejected click or undo is answered with 200 and a body carrying
// "success": false and a "reason" such as illegal_move or nothing_to_undo.
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message",
//	  "code": 404
//	}
//
// Every response carries an X-Request-ID header which also appears in the
// request log line.
package api
