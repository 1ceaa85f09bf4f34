package client

import (
	"fmt"
	"time"

	"github.com/tomz197/gestris/internal/draw"
	"github.com/tomz197/gestris/internal/loop/config"
	"github.com/tomz197/gestris/internal/loop/server"
	"github.com/tomz197/gestris/internal/tetris"
)

// Layout, in 0-based canvas cells.
const (
	canvasWidth  = 64
	canvasHeight = 24

	holdCol = 1
	holdRow = 1

	boardCol    = 13
	boardRow    = 1
	boardWidth  = tetris.Cols*config.CellWidth + 2
	boardHeight = tetris.Rows - tetris.HiddenRows + 2

	panelCol = boardCol + boardWidth + 2

	previewWidth  = config.PreviewCols*config.CellWidth + 2
	previewHeight = config.PreviewRows + 2
)

var keyLegend = []string{
	"←/a  left",
	"→/d  right",
	"↓/s  down",
	"↑/w  rotate",
	"z    rot ccw",
	"c    hold",
	"spc  drop",
	"q    quit",
}

var gestureLegend = []string{
	"Left hand up     rot ccw",
	"Right hand up    rotate",
	"Left hand out    left",
	"Right hand out   right",
	"Crouch           drop",
	"Hands together   hold",
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On screen or inactivity transitions, do a full terminal clear so text
	// from the previous screen doesn't persist.
	stateChanged := c.state.Screen != c.state.prevScreen
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevScreen = c.state.Screen
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()

	switch {
	case c.state.Screen == ScreenShutdown:
		c.drawShutdownScreen()
	default:
		snap := c.server.Snapshot()
		c.drawPlayfield(snap)
		switch {
		case c.state.isInactive:
			c.drawInactivityOverlay()
		case c.state.Screen == ScreenGameOver:
			c.drawGameOverOverlay()
		}
	}

	c.canvas.Render(c.chunkWriter)
	return c.chunkWriter.Flush()
}

// drawPlayfield draws the board, previews, stats and legends.
func (c *Client) drawPlayfield(snap tetris.Snapshot) {
	cv := c.canvas
	cv.Text(boardCol+boardWidth/2-3, 0, "GESTRIS", draw.ColorWhite)

	c.drawBoard(snap)

	c.drawPreview(holdCol, holdRow, "HOLD", snap.HeldID, !snap.CanHold)
	for i, line := range keyLegend {
		cv.Text(holdCol, holdRow+previewHeight+1+i, line, draw.ColorGray)
	}

	c.drawPreview(panelCol, holdRow, "NEXT", snap.NextID, false)

	row := holdRow + previewHeight + 1
	cv.Text(panelCol, row, "SCORE", draw.ColorGray)
	cv.Text(panelCol, row+1, fmt.Sprintf("%d", snap.Score), draw.ColorWhite)
	delay := server.TickDelay(snap.Score, server.DefaultTiming())
	cv.Text(panelCol+12, row, "SPEED", draw.ColorGray)
	cv.Text(panelCol+12, row+1, fmt.Sprintf("%dms", delay.Milliseconds()), draw.ColorWhite)

	row += 3
	cv.Text(panelCol, row, "PLAYERS", draw.ColorGray)
	cv.Text(panelCol, row+1, fmt.Sprintf("%d", c.server.Clients()), draw.ColorWhite)

	row += 3
	cv.Text(panelCol, row, "GESTURES", draw.ColorGray)
	for i, line := range gestureLegend {
		cv.Text(panelCol, row+1+i, line, draw.ColorDefault)
	}

	if c.username != "" {
		cv.Text(holdCol, canvasHeight-1, c.username, draw.ColorGray)
	}
}

// drawBoard draws the visible rows of the grid, the ghost and the active block.
func (c *Client) drawBoard(snap tetris.Snapshot) {
	c.canvas.Box(boardCol, boardRow, boardWidth, boardHeight, draw.ColorGray)

	for r := tetris.HiddenRows; r < snap.Rows; r++ {
		for col := 0; col < snap.Cols; col++ {
			if id := snap.At(r, col); id != tetris.IDEmpty {
				c.boardCell(col, r, draw.BlockFull, draw.TileColor(id))
			} else {
				c.boardCell(col, r, draw.BlockEmpty, draw.ColorDefault)
				c.canvas.Set(boardX(col), boardY(r), draw.Dot, draw.ColorGray)
			}
		}
	}

	if snap.GameOver {
		return
	}
	color := draw.TileColor(snap.CurrentID)
	for _, p := range snap.Ghost {
		if snap.At(p.Row, p.Col) == tetris.IDEmpty {
			c.boardCell(p.Col, p.Row, draw.BlockLight, color)
		}
	}
	for _, p := range snap.Current {
		c.boardCell(p.Col, p.Row, draw.BlockFull, color)
	}
}

func boardX(col int) int { return boardCol + 1 + col*config.CellWidth }
func boardY(row int) int { return boardRow + 1 + row - tetris.HiddenRows }

// boardCell fills one grid cell. Cells in the hidden rows are skipped.
func (c *Client) boardCell(col, row int, ch rune, color draw.Color) {
	if row < tetris.HiddenRows {
		return
	}
	x, y := boardX(col), boardY(row)
	for i := 0; i < config.CellWidth; i++ {
		c.canvas.Set(x+i, y, ch, color)
	}
}

// drawPreview draws a boxed block preview. Dimmed previews use gray tiles.
func (c *Client) drawPreview(col, row int, label string, id int, dimmed bool) {
	cv := c.canvas
	cv.Box(col, row, previewWidth, previewHeight, draw.ColorGray)
	cv.Text(col+2, row, label, draw.ColorGray)
	if id == tetris.IDEmpty {
		return
	}
	color := draw.TileColor(id)
	if dimmed {
		color = draw.ColorGray
	}
	for _, p := range tetris.Shape(id) {
		x := col + 1 + p.Col*config.CellWidth
		for i := 0; i < config.CellWidth; i++ {
			cv.Set(x+i, row+1+p.Row, draw.BlockFull, color)
		}
	}
}

// boardText writes s centered over the board.
func (c *Client) boardText(row int, s string, color draw.Color) {
	runes := []rune(s)
	c.canvas.Text(boardCol+(boardWidth-len(runes))/2, row, s, color)
}

// drawGameOverOverlay draws the final score and restart prompt over the board.
func (c *Client) drawGameOverOverlay() {
	mid := boardRow + boardHeight/2
	for r := mid - 3; r <= mid+3; r++ {
		for x := boardCol + 1; x < boardCol+boardWidth-1; x++ {
			c.canvas.Set(x, r, draw.BlockEmpty, draw.ColorDefault)
		}
	}
	c.boardText(mid-2, "GAME OVER", draw.ColorRed)
	c.boardText(mid, fmt.Sprintf("Score: %d", c.state.FinalScore), draw.ColorWhite)
	if time.Now().UnixMilli()/600%2 == 0 {
		c.boardText(mid+2, "SPACE to restart", draw.ColorDefault)
	}
}

// drawInactivityOverlay warns the client before the idle disconnect.
func (c *Client) drawInactivityOverlay() {
	mid := boardRow + boardHeight/2
	remaining := int((c.idleTimeout - time.Since(c.lastInput)).Seconds())
	c.boardText(mid-2, "INACTIVITY WARNING", draw.ColorYellow)
	c.boardText(mid, fmt.Sprintf("Disconnect in %ds", max(remaining, 0)), draw.ColorDefault)
	c.boardText(mid+2, "Press any key", draw.ColorDefault)
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen() {
	cv := c.canvas
	centerY := canvasHeight / 2
	cv.CenterText(centerY-3, "SERVER SHUTTING DOWN", draw.ColorWhite)
	cv.CenterText(centerY-1, "The server is restarting for maintenance.", draw.ColorDefault)
	cv.CenterText(centerY, "Please reconnect in a moment.", draw.ColorDefault)

	remaining := int(c.state.shutdownTimer) + 1
	cv.CenterText(centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining), draw.ColorDefault)
	cv.CenterText(centerY+4, "Press Q to disconnect now", draw.ColorGray)
}
