package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

const (
	windowWidth  = 1280
	windowHeight = 800
	windowTitle  = "table configurator"
	targetFPS    = 60
)

// Init opens the window and reports whether a usable graphics context came
// up. The caller must bypass the 3D core entirely when this returns false;
// there is no degraded rendering mode.
func Init() bool {
	rl.InitWindow(windowWidth, windowHeight, windowTitle)
	return rl.IsWindowReady()
}

// Run drives the main loop until the window closes. Each frame it calls
// update (input, lifecycle tick), then clears the screen and calls draw.
// Init must have returned true first.
func Run(update, draw func()) {
	defer rl.CloseWindow()
	rl.SetTargetFPS(targetFPS)

	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(24, 26, 30, 255))
		draw()
		rl.EndDrawing()
	}
}
