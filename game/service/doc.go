// Package service provides the business logic layer for the Card Match Game.
//
// The service package implements:
//   - Multi-session game management
//   - Click and undo routing with rejection reasons
//   - Pause, resume and restart control
//   - Paginated undo history and legal-move hints
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// LevelManager loads and stores level files.
// EventPublisher receives every committed change; the WebSocket hub implements it.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. A rejected click or undo is a normal outcome, reported as
// Success false with a Reason code; only unknown sessions and internal faults
// come back as errors. All commands are serialized, so a session processes one
// command to completion before the next.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	levelMgr, _ := config.NewManager("levels")
//	gameService := service.NewGameService(sessionMgr, levelMgr,
//		service.WithLogger(logger),
//		service.WithEventPublisher(hub),
//	)
//
//	info, err := gameService.CreateSession(ctx, service.DefaultLevel)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.ClickCard(ctx, info.ID, 3)
//	if err == nil && !result.Success {
//		fmt.Println(result.Reason)
//	}
package service
