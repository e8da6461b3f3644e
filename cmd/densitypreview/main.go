// Density profile preview tool - interactive visualization with sliders.
//
// Renders a z-slice of one configured density profile over the local domain
// and lets the noise parameters be tuned live.
//
// Usage: go run ./cmd/densitypreview [-config config.yaml] [-profile name]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/nzeal/picongpu/config"
	"github.com/nzeal/picongpu/density"
	"github.com/nzeal/picongpu/grid"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	profileName := flag.String("profile", "", "Profile to preview (empty = first configured)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if len(cfg.Profiles) == 0 {
		log.Fatal("no profiles configured")
	}

	selected := 0
	if *profileName != "" {
		idx, ok := cfg.Derived.ProfileIndex[*profileName]
		if !ok {
			log.Fatalf("unknown profile %q", *profileName)
		}
		selected = idx
	}
	pc := cfg.Profiles[selected]

	rl.InitWindow(windowWidth, windowHeight, "Density Profile Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	nx, ny, nz := cfg.Grid.Cells[0], cfg.Grid.Cells[1], cfg.Grid.Cells[2]
	densGrid := make([]float32, nx*ny)
	img := rl.GenImageColor(int(nx), int(ny), rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	sliceZ := nz / 2
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			profile, err := density.FromConfig(pc)
			if err != nil {
				log.Fatalf("building profile: %v", err)
			}
			generateSlice(densGrid, nx, ny, sliceZ, profile)
			updateTexture(texture, densGrid)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Draw preview
		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: float32(nx), Height: float32(ny)},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		// Draw stats
		var total float32
		var minVal, maxVal float32 = 1, 0
		for _, v := range densGrid {
			total += v
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
		avg := total / float32(len(densGrid))

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Min: %.3f  Max: %.3f  Avg: %.3f", minVal, maxVal, avg), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Profile: %s (%s)  z=%d", pc.Name, pc.Kind, sliceZ), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Density Profile Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		// Profile selector
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Next Profile") {
			selected = (selected + 1) % len(cfg.Profiles)
			pc = cfg.Profiles[selected]
			needsRegen = true
		}
		panelY += 45

		// Slice slider
		rl.DrawText("Z slice", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSlice := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0", fmt.Sprintf("%d", nz-1),
			float32(sliceZ), 0, float32(nz-1),
		)
		rl.DrawText(fmt.Sprintf("%d", sliceZ), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int(newSlice) != sliceZ {
			sliceZ = int(newSlice)
			needsRegen = true
		}
		panelY += 35

		// Noise parameter sliders for the fractal kinds
		if pc.Kind == "fbm" || pc.Kind == "simplex" {
			panelY = noiseSliders(&pc, panelX, panelY, &needsRegen)
		}

		// YAML snippet for pasting back into the config
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range yamlLines(pc) {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			yaml := ""
			for _, line := range yamlLines(pc) {
				yaml += line + "\n"
			}
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

// noiseSliders draws the fractal parameter sliders and returns the new panel Y.
func noiseSliders(pc *config.ProfileConfig, panelX, panelY float32, needsRegen *bool) float32 {
	slider := func(label string, value, min, max float32, format string) float32 {
		rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		v := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			fmt.Sprintf(format, min), fmt.Sprintf(format, max),
			value, min, max,
		)
		rl.DrawText(fmt.Sprintf(format, value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		panelY += 35
		return v
	}

	newWavelength := slider("Wavelength (feature size in cells)", float32(pc.Wavelength), 2, 64, "%.1f")
	if float64(newWavelength) != pc.Wavelength {
		pc.Wavelength = float64(newWavelength)
		*needsRegen = true
	}

	if pc.Kind == "fbm" {
		newOctaves := slider("Octaves (detail level)", float32(pc.Octaves), 1, 6, "%.0f")
		if int(newOctaves) != pc.Octaves {
			pc.Octaves = int(newOctaves)
			*needsRegen = true
		}
		newLacunarity := slider("Lacunarity (frequency multiplier)", float32(pc.Lacunarity), 1.5, 4.0, "%.2f")
		if float64(newLacunarity) != pc.Lacunarity {
			pc.Lacunarity = float64(newLacunarity)
			*needsRegen = true
		}
		newGain := slider("Gain (amplitude multiplier)", float32(pc.Gain), 0.2, 0.9, "%.2f")
		if float64(newGain) != pc.Gain {
			pc.Gain = float64(newGain)
			*needsRegen = true
		}
		newContrast := slider("Contrast (higher = sparser)", float32(pc.Contrast), 1.0, 5.0, "%.2f")
		if float64(newContrast) != pc.Contrast {
			pc.Contrast = float64(newContrast)
			*needsRegen = true
		}
	} else {
		newThreshold := slider("Threshold (vacuum cutoff)", float32(pc.Threshold), 0, 0.9, "%.2f")
		if float64(newThreshold) != pc.Threshold {
			pc.Threshold = float64(newThreshold)
			*needsRegen = true
		}
	}

	newSeed := slider("Seed", float32(pc.Seed), 0, 99999, "%.0f")
	if int64(newSeed) != pc.Seed {
		pc.Seed = int64(newSeed)
		*needsRegen = true
	}

	if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
		pc.Seed = int64(rl.GetRandomValue(0, 99999))
		*needsRegen = true
	}
	panelY += 45

	return panelY
}

func yamlLines(pc config.ProfileConfig) []string {
	lines := []string{
		fmt.Sprintf("- name: %s", pc.Name),
		fmt.Sprintf("  kind: %s", pc.Kind),
	}
	switch pc.Kind {
	case "uniform":
		lines = append(lines, fmt.Sprintf("  value: %.3f", pc.Value))
	case "gaussian":
		lines = append(lines,
			fmt.Sprintf("  center: [%.1f, %.1f, %.1f]", pc.Center[0], pc.Center[1], pc.Center[2]),
			fmt.Sprintf("  sigma: [%.1f, %.1f, %.1f]", pc.Sigma[0], pc.Sigma[1], pc.Sigma[2]))
	case "ramp":
		lines = append(lines,
			fmt.Sprintf("  axis: %d", pc.Axis),
			fmt.Sprintf("  from: %.1f", pc.From),
			fmt.Sprintf("  to: %.1f", pc.To))
	case "sphere":
		lines = append(lines,
			fmt.Sprintf("  center: [%.1f, %.1f, %.1f]", pc.Center[0], pc.Center[1], pc.Center[2]),
			fmt.Sprintf("  radius: %.1f", pc.Radius))
	case "fbm":
		lines = append(lines,
			fmt.Sprintf("  wavelength: %.1f", pc.Wavelength),
			fmt.Sprintf("  octaves: %d", pc.Octaves),
			fmt.Sprintf("  lacunarity: %.2f", pc.Lacunarity),
			fmt.Sprintf("  gain: %.2f", pc.Gain),
			fmt.Sprintf("  contrast: %.2f", pc.Contrast),
			fmt.Sprintf("  seed: %d", pc.Seed))
	case "simplex":
		lines = append(lines,
			fmt.Sprintf("  wavelength: %.1f", pc.Wavelength),
			fmt.Sprintf("  threshold: %.2f", pc.Threshold),
			fmt.Sprintf("  seed: %d", pc.Seed))
	}
	return lines
}

// generateSlice fills the preview grid with densities of one z-slice.
func generateSlice(out []float32, nx, ny, z int, profile density.Profile) {
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			out[y*nx+x] = float32(profile.Density(grid.Idx3{X: x, Y: y, Z: z}))
		}
	}
}

// updateTexture updates the GPU texture from the grid values.
func updateTexture(texture rl.Texture2D, values []float32) {
	pixels := make([]color.RGBA, len(values))
	for i, v := range values {
		// Color gradient: dark blue -> cyan -> yellow -> white
		var r, g, b uint8
		if v < 0.25 {
			t := v / 0.25
			r = uint8(10 + t*30)
			g = uint8(20 + t*60)
			b = uint8(60 + t*100)
		} else if v < 0.5 {
			t := (v - 0.25) / 0.25
			r = uint8(40 + t*20)
			g = uint8(80 + t*120)
			b = uint8(160 + t*40)
		} else if v < 0.75 {
			t := (v - 0.5) / 0.25
			r = uint8(60 + t*140)
			g = uint8(200 - t*40)
			b = uint8(200 - t*150)
		} else {
			t := (v - 0.75) / 0.25
			r = uint8(200 + t*55)
			g = uint8(160 + t*95)
			b = uint8(50 + t*205)
		}
		pixels[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	rl.UpdateTexture(texture, pixels)
}
