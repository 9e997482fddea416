package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/card-match-game/game/engine"
	"github.com/wricardo/card-match-game/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Card Match Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Card Match Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Clear the playfield. A playfield card can be moved onto the stack when its face is
exactly one rank above or below the stack's top card (suits do not matter, no wrap
between Ace and King).

AVAILABLE TOOLS:
- create_session: Create a new game session on a level
- list_sessions: List all active sessions
- get_session: Get session details
- board_state: Show the current board
- click_card: Click a card by id - requires intent explanation
- undo: Undo the last committed move
- restart_game / start_game / pause_game / resume_game: Session control
- undo_history: View committed moves that can be undone
- hints: List the cards that can currently be clicked
- list_levels: List available levels
- describe_card: Details about a single card
- game_instructions: Full rules

NOTE: The 'intent' parameter on click_card serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

func sessionOnlySchema() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "Session ID",
			},
		},
		Required: []string{"session_id"},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session, optionally on a specific level",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level_id": map[string]interface{}{
					"type":        "number",
					"description": "Level to play (optional, defaults to the lowest-numbered level)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: sessionOnlySchema(),
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "board_state",
		Description: "Get the current board: status, stack top and every card still in play",
		InputSchema: sessionOnlySchema(),
	}, c.handleBoardState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "click_card",
		Description: "Click a card. A playfield card one rank away from the stack top moves onto the stack; a buried stack card is rotated to the top.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"card_id": map[string]interface{}{
					"type":        "number",
					"description": "Id of the card to click",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Why you are clicking this card",
				},
			},
			Required: []string{"session_id", "card_id", "intent"},
		},
	}, c.handleClickCard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "undo",
		Description: "Undo the most recent committed move",
		InputSchema: sessionOnlySchema(),
	}, c.handleUndo)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart_game",
		Description: "Rebuild the board from its level and clear the undo history",
		InputSchema: sessionOnlySchema(),
	}, c.handleControl("restart"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Mark an idle game as playing",
		InputSchema: sessionOnlySchema(),
	}, c.handleControl("start"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "pause_game",
		Description: "Pause the game; clicks are rejected until resumed",
		InputSchema: sessionOnlySchema(),
	}, c.handleControl("pause"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "resume_game",
		Description: "Resume a paused game",
		InputSchema: sessionOnlySchema(),
	}, c.handleControl("resume"))

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "undo_history",
		Description: "Get the undo history with pagination",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"page": map[string]interface{}{
					"type":        "number",
					"description": "Page number (default: 1)",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Moves per page (default: 20)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"description": "asc (oldest first) or desc (newest first, default)",
					"enum":        []string{"asc", "desc"},
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleUndoHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "hints",
		Description: "List the cards whose click would currently commit a move",
		InputSchema: sessionOnlySchema(),
	}, c.handleHints)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List available levels",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListLevels)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_card",
		Description: "Get details about a single card, including whether it can be clicked right now",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"card_id": map[string]interface{}{
					"type":        "number",
					"description": "Card id",
				},
			},
			Required: []string{"session_id", "card_id"},
		},
	}, c.handleDescribeCard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules of the game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"].(string); ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArgument reads an integer argument; JSON numbers arrive as float64.
// Fractional values are rejected.
func intArgument(args map[string]interface{}, name string) (int, bool) {
	switch v := args[name].(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]interface{}{}
	if levelID, ok := intArgument(args, "level_id"); ok {
		body["level_id"] = levelID
	}

	var session service.SessionInfo
	err := c.apiCall(ctx, "POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nLevel: %d\n\n%s", session.ID, session.LevelID, formatBoard(session.Board))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "unknown"
		if s.Board != nil {
			status = s.Board.Status.String()
		}
		result += fmt.Sprintf("- %s (Level: %d, Status: %s, Created: %s)\n",
			s.ID, s.LevelID, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleBoardState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var board engine.BoardView
	err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s/board", sessionID), nil, &board)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBoard(&board)), nil
}

func (c *Client) handleClickCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	cardID, ok := intArgument(args, "card_id")
	if !ok {
		return mcp.NewToolResultError("card_id is required and must be an integer"), nil
	}

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_, _ = args["intent"].(string)

	var result service.ClickResult
	err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/click", sessionID),
		map[string]int{"card_id": cardID}, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatClickResult(&result)), nil
}

func (c *Client) handleUndo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var result service.UndoResult
	err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/undo", sessionID), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatUndoResult(&result)), nil
}

// handleControl builds the handler for restart, start, pause and resume
func (c *Client) handleControl(action string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, _ := arguments(request)["session_id"].(string)

		var response struct {
			Message string            `json:"message"`
			Board   *engine.BoardView `json:"board"`
		}
		err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/%s", sessionID, action), nil, &response)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(response.Message + "\n\n" + formatBoard(response.Board)), nil
	}
}

func (c *Client) handleUndoHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := "?"
	if page, ok := intArgument(args, "page"); ok {
		params += fmt.Sprintf("page=%d&", page)
	}
	if limit, ok := intArgument(args, "limit"); ok {
		params += fmt.Sprintf("limit=%d&", limit)
	}
	if order, ok := args["order"].(string); ok && order != "" {
		params += fmt.Sprintf("order=%s&", order)
	}

	var history service.HistoryResponse
	err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s/history%s", sessionID, strings.TrimSuffix(params, "&")), nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleHints(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var hints service.HintsResponse
	err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s/hints", sessionID), nil, &hints)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHints(&hints)), nil
}

func (c *Client) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var levels []service.LevelInfo
	err := c.apiCall(ctx, "GET", "/api/levels", nil, &levels)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Levels:\n\n"
	for _, level := range levels {
		result += fmt.Sprintf("• Level %d (%s)\n  Playfield: %d cards, Stack: %d cards\n\n",
			level.LevelID, level.Filename, level.PlayfieldCards, level.StackCards)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleDescribeCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	cardID, ok := intArgument(args, "card_id")
	if !ok {
		return mcp.NewToolResultError("card_id is required and must be an integer"), nil
	}

	var hints service.HintsResponse
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s/hints", sessionID), nil, &hints); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var board engine.BoardView
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s/board", sessionID), nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	card, found := findCard(&board, cardID)
	if !found {
		return mcp.NewToolResultText(fmt.Sprintf("Card %d is not in play (removed from the board or unknown id)", cardID)), nil
	}

	return mcp.NewToolResultText(describeCard(card, &board, &hints)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Card Match Game - Complete Instructions

GAME OBJECTIVE:
Move every playfield card onto the stack. The game is over when the playfield is empty.

BOARD LAYOUT:
• Playfield: cards laid out in the upper area, each with an id
• Stack: a row of cards at the bottom; the rightmost card is the TOP
• Only the top card matters for matching

MATCHING RULE:
• A playfield card matches the top when their ranks differ by exactly one
• Ranks: ACE=1, TWO=2 ... TEN=10, JACK=11, QUEEN=12, KING=13
• Suits are ignored
• There is NO wraparound: ACE and KING do not match

MOVES:
• Click a matching playfield card: it replaces the top card, which leaves play for good
• Click a buried stack card: the current top leaves play and the clicked card becomes the top
• Clicking the top card, a non-matching card or a removed card is rejected and changes nothing

UNDO:
• Every committed move can be undone, most recent first
• Undo restores the stack order exactly and returns cards to their old positions
• Undo can bring a finished game back into play

SESSION CONTROL:
• restart_game rebuilds the level from scratch and clears the undo history
• start_game marks an idle game as playing; the first click does the same
• pause_game blocks clicks until resume_game

STRATEGY TIPS:
• Call hints before every click; it lists exactly the ids that would commit
• Prefer playfield moves that keep a chain going (7 → 8 → 9 or 7 → 6 → 5)
• Rotating a stack card burns the current top; do it only when the playfield is stuck
• When hints reports stuck, undo and try another branch

REJECTION REASONS:
• illegal_move: ranks do not differ by one, the card is the top, or it already left play
• empty_stack: there is no top card to match against
• no_such_card: the id does not exist on this board
• game_paused / game_over: the session does not accept clicks right now
• nothing_to_undo: the undo history is empty

Good luck clearing the board!`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nLevel: %d\nCreated: %s\nUndo depth: %d\n\n%s",
		session.ID, session.LevelID,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		session.UndoDepth,
		formatBoard(session.Board))
}

func formatCard(card engine.Card) string {
	return fmt.Sprintf("#%d %s of %s", card.ID, card.Face, card.Suit)
}

func formatBoard(board *engine.BoardView) string {
	if board == nil {
		return "No board available"
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Status: %s | Playfield: %d | Stack: %d\n",
		board.Status, len(board.Playfield), len(board.Stack)))

	if top, ok := topCard(board); ok {
		result.WriteString(fmt.Sprintf("Stack top: %s\n", formatCard(top)))
	} else {
		result.WriteString("Stack top: (empty)\n")
	}

	result.WriteString("\nPlayfield:\n")
	if len(board.Playfield) == 0 {
		result.WriteString("  (empty)\n")
	}
	for _, card := range board.Playfield {
		result.WriteString(fmt.Sprintf("  %s at (%.0f,%.0f)\n", formatCard(card), card.Position.X, card.Position.Y))
	}

	result.WriteString("\nStack (bottom → top):\n")
	if len(board.Stack) == 0 {
		result.WriteString("  (empty)\n")
	}
	for _, card := range board.Stack {
		result.WriteString(fmt.Sprintf("  [%d] %s\n", card.StackIndex, formatCard(card)))
	}

	switch board.Status {
	case engine.StatusGameOver:
		result.WriteString("\n🎉 BOARD CLEARED!")
	case engine.StatusPaused:
		result.WriteString("\n⏸ PAUSED")
	}

	return result.String()
}

func topCard(board *engine.BoardView) (engine.Card, bool) {
	if board.TopCardID == nil {
		return engine.Card{}, false
	}
	for _, card := range board.Stack {
		if card.ID == *board.TopCardID {
			return card, true
		}
	}
	return engine.Card{}, false
}

func findCard(board *engine.BoardView, id int) (engine.Card, bool) {
	for _, card := range board.Playfield {
		if card.ID == id {
			return card, true
		}
	}
	for _, card := range board.Stack {
		if card.ID == id {
			return card, true
		}
	}
	return engine.Card{}, false
}

func formatClickResult(result *service.ClickResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString(fmt.Sprintf("✓ Card %d moved", result.CardID))
		if result.Move != nil {
			b.WriteString(fmt.Sprintf(" (%s, move #%d", result.Move.Kind, result.Move.Sequence))
			if result.Move.Kind == engine.MovePlayfieldToStack {
				b.WriteString(fmt.Sprintf(", consumed card %d", result.Move.ConsumedStackTopID))
			}
			b.WriteString(")")
		}
		b.WriteString("\n")
	} else {
		b.WriteString(fmt.Sprintf("✗ Click on card %d rejected: %s\n", result.CardID, result.Reason))
	}
	if result.Message != "" {
		b.WriteString(result.Message + "\n")
	}
	b.WriteString("\n")
	b.WriteString(formatBoard(result.Board))
	return b.String()
}

func formatUndoResult(result *service.UndoResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("↶ Undo successful")
		if result.Undone != nil {
			b.WriteString(fmt.Sprintf(" (reverted move #%d, %s of card %d)",
				result.Undone.Sequence, result.Undone.Kind, result.Undone.MovedCardID))
		}
		b.WriteString("\n")
	} else {
		b.WriteString(fmt.Sprintf("✗ Undo rejected: %s\n", result.Reason))
	}
	b.WriteString("\n")
	b.WriteString(formatBoard(result.Board))
	return b.String()
}

func formatHints(hints *service.HintsResponse) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Status: %s\n", hints.Status))
	if hints.TopCard != nil {
		b.WriteString(fmt.Sprintf("Stack top: %s\n", formatCard(*hints.TopCard)))
	}

	if len(hints.Cards) == 0 {
		b.WriteString("No card can be clicked right now.\n")
	} else {
		b.WriteString("Clickable cards:\n")
		for _, card := range hints.Cards {
			b.WriteString(fmt.Sprintf("  %s (%s)\n", formatCard(card), card.Zone))
		}
	}

	if hints.Stuck {
		if hints.CanUndo {
			b.WriteString("\nStuck: undo and try a different line.")
		} else {
			b.WriteString("\nStuck: restart the game.")
		}
	}
	return b.String()
}

func describeCard(card engine.Card, board *engine.BoardView, hints *service.HintsResponse) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Card %s\n", formatCard(card)))
	b.WriteString(fmt.Sprintf("Zone: %s\n", card.Zone))
	b.WriteString(fmt.Sprintf("Position: (%.0f,%.0f)\n", card.Position.X, card.Position.Y))
	if card.Zone == engine.ZoneStack {
		b.WriteString(fmt.Sprintf("Stack index: %d\n", card.StackIndex))
	}

	clickable := false
	for _, id := range hints.LegalMoves {
		if id == card.ID {
			clickable = true
			break
		}
	}

	top, hasTop := topCard(board)
	switch {
	case clickable:
		b.WriteString("Clickable: yes")
	case hasTop && top.ID == card.ID:
		b.WriteString("Clickable: no (it is the stack top)")
	case card.Zone == engine.ZonePlayfield && hasTop:
		b.WriteString(fmt.Sprintf("Clickable: no (%s does not differ by one from %s)", card.Face, top.Face))
	default:
		b.WriteString("Clickable: no")
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Undo History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves))

	if len(history.Moves) == 0 {
		b.WriteString("(no moves to undo)\n")
	}
	for _, move := range history.Moves {
		b.WriteString(fmt.Sprintf("%d. %s card %d", move.Sequence, move.Kind, move.MovedCardID))
		if move.Kind == engine.MovePlayfieldToStack {
			b.WriteString(fmt.Sprintf(" consumed %d", move.ConsumedStackTopID))
		}
		b.WriteString(fmt.Sprintf(" [(%.0f,%.0f) → (%.0f,%.0f)]\n",
			move.SourcePosition.X, move.SourcePosition.Y, move.TargetPosition.X, move.TargetPosition.Y))
	}

	return b.String()
}
