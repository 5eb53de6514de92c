package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func newTestCamera() *Camera {
	return New(1000, 500, r2.Vec{X: -1, Y: -1}, r2.Vec{X: 1, Y: 1})
}

func TestNew(t *testing.T) {
	cam := newTestCamera()

	// Should be centered on world
	if cam.Center != (r2.Vec{}) {
		t.Errorf("expected camera at origin, got %v", cam.Center)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
	// Height limits the fit: 0.95 * 500 / 2
	if math.Abs(cam.Scale()-237.5) > 1e-9 {
		t.Errorf("expected scale 237.5, got %f", cam.Scale())
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := newTestCamera()

	// Camera center should map to screen center
	sx, sy := cam.WorldToScreen(r2.Vec{})
	if math.Abs(float64(sx-500)) > 0.01 || math.Abs(float64(sy-250)) > 0.01 {
		t.Errorf("expected screen center (500, 250), got (%f, %f)", sx, sy)
	}
}

func TestWorldYPointsUp(t *testing.T) {
	cam := newTestCamera()

	_, low := cam.WorldToScreen(r2.Vec{Y: -0.5})
	_, high := cam.WorldToScreen(r2.Vec{Y: 0.5})
	if high >= low {
		t.Errorf("higher world y should be higher on screen: %f vs %f", high, low)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := newTestCamera()
	cam.ZoomBy(1.7)
	cam.Pan(40, -25)

	testCases := []struct{ sx, sy float32 }{
		{500, 250}, // center
		{100, 100}, // top-left
		{900, 450}, // near bottom-right
	}

	for _, tc := range testCases {
		w := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(w)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> %v -> (%f,%f)", tc.sx, tc.sy, w, sx, sy)
		}
	}
}

func TestPanClampsToWorld(t *testing.T) {
	cam := newTestCamera()

	// Pan far right and down on screen
	cam.Pan(1e6, 1e6)

	if cam.Center.X != 1 || cam.Center.Y != -1 {
		t.Errorf("expected center clamped to (1, -1), got %v", cam.Center)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := newTestCamera()

	cam.SetZoom(0.1) // Below min
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.SetZoom(100.0) // Above max
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestResizeKeepsWorldFitted(t *testing.T) {
	cam := newTestCamera()
	cam.Resize(400, 800)

	// Width now limits the fit
	if math.Abs(cam.Scale()-190) > 1e-9 {
		t.Errorf("expected scale 190, got %f", cam.Scale())
	}
	if got := cam.Length(2); math.Abs(float64(got)-380) > 1e-3 {
		t.Errorf("expected world width to span 380px, got %f", got)
	}
}

func TestIsVisible(t *testing.T) {
	cam := newTestCamera()
	cam.SetZoom(4)

	// Visible half-extent in y is 250 / 950 world units
	if !cam.IsVisible(r2.Vec{}, 0.01) {
		t.Error("center should be visible")
	}

	if cam.IsVisible(r2.Vec{X: 0.9, Y: 0.9}, 0.01) {
		t.Error("far point should not be visible")
	}

	// Point just off the top edge with large radius should be visible
	if !cam.IsVisible(r2.Vec{Y: 0.4}, 0.2) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestReset(t *testing.T) {
	cam := newTestCamera()
	cam.Center = r2.Vec{X: 0.5, Y: -0.3}
	cam.Zoom = 2.5

	cam.Reset()

	if cam.Center != (r2.Vec{}) {
		t.Errorf("expected origin, got %v", cam.Center)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
