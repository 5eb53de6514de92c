package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shallows/ui"
)

var background = rl.Color{R: 12, G: 14, B: 20, A: 255}

const controlsLegend = "[Space] pause  [N] step  [,/.] speed  [arrows] pan  [wheel] zoom  [click] inspect  [F11] fullscreen"

// velocityScale maps a speed of 1 to this many world units on screen.
const velocityScale = 0.05

// Draw renders the terrain, the particles and the UI.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()
	g.solver.SnapshotInto(&g.snapshot)

	rl.BeginDrawing()
	rl.ClearBackground(background)

	if g.overlays.IsEnabled(ui.OverlayTerrain) {
		g.terrainRenderer.Draw(g.camera)
	}

	g.particleRenderer.ShowBoundary = g.overlays.IsEnabled(ui.OverlayBoundary)
	g.particleRenderer.HeightTint = g.overlays.IsEnabled(ui.OverlayHeightTint)
	g.particleRenderer.Draw(&g.snapshot, g.camera)

	if g.overlays.IsEnabled(ui.OverlayVelocity) {
		g.particleRenderer.DrawVelocities(&g.snapshot, g.camera, velocityScale)
	}

	g.inspector.DrawSelection(&g.snapshot, g.camera.WorldToScreen, g.camera.Length(g.particleRenderer.Radius()))

	g.drawUI()

	rl.EndDrawing()
}

// drawUI renders the HUD and panels, and applies control panel actions.
func (g *Game) drawUI() {
	boundary, fluid := g.solver.Counts()
	stats := g.perfCollector.Stats()
	screenW := int32(rl.GetScreenWidth())
	screenH := int32(rl.GetScreenHeight())

	g.hud.Draw(ui.HUDData{
		Title:          "Shallows",
		Step:           g.step,
		SimTime:        g.SimTime(),
		FluidCount:     fluid,
		BoundaryCount:  boundary,
		StepsPerUpdate: g.stepsPerUpdate,
		FPS:            stats.FPS,
		Zoom:           g.camera.Zoom,
		Paused:         g.paused,
	}, screenW)

	if g.overlays.IsEnabled(ui.OverlayControls) {
		action := g.controls.Draw(ui.ControlsState{
			Paused:            g.paused,
			StepsPerUpdate:    g.stepsPerUpdate,
			MaxStepsPerUpdate: maxStepsPerUpdate,
		}, g.overlays)
		g.applyControls(action)
	}

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.SetPosition(10, screenH-200)
		g.perfPanel.Draw(stats)
	}

	g.inspector.SetPosition(screenW-250, 120)
	g.inspector.Draw(&g.snapshot)

	g.hud.DrawControls(screenH, controlsLegend)
}

// applyControls applies the controls panel actions of this frame.
func (g *Game) applyControls(action ui.ControlsAction) {
	if action.TogglePause {
		g.paused = !g.paused
	}
	if action.Step && g.paused {
		g.stepRequested = true
	}
	if action.ResetView {
		g.camera.Reset()
	}
	if action.StepsPerUpdate >= 1 && action.StepsPerUpdate <= maxStepsPerUpdate {
		g.stepsPerUpdate = action.StepsPerUpdate
	}
}
