// Package mcp provides a Model Context Protocol server for the Card Match Game.
//
// The server is a thin client of the REST API: every tool call becomes one or
// two HTTP requests against a running game server, and the JSON answer is
// rendered as plain text for the agent.
//
// MCP Tools:
//   - create_session, list_sessions, get_session
//   - board_state: status, stack top, playfield and stack listing
//   - click_card: click by id, with an intent explanation
//   - undo, undo_history
//   - restart_game, start_game, pause_game, resume_game
//   - hints, describe_card
//   - list_levels, game_instructions
//
// A rejected click is not a tool error; the text names the rejection reason
// (illegal_move, empty_stack, ...). Transport failures and unknown sessions
// are returned as tool errors.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
