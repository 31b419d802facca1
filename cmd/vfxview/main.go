// Package main provides an interactive viewer for particle effect
// presets.
//
// Usage:
//
//	go run cmd/vfxview/main.go [flags]
//
// Flags:
//
//	--dir <path>      Preset directory (default "data/effects")
//	--effect <name>   Start with a specific effect (e.g., --effect=sparks)
//	--speed <factor>  Initial simulation speed multiplier (0.1 ~ 4.0)
//
// Controls:
//
//	Tab / Left/Right  - Switch to previous/next effect
//	Space             - Toggle pause (发射器在下一帧边界暂停)
//	R                 - Restart the current effect
//	A                 - Toggle auto-cycling through the presets
//	O                 - Toggle emitter orbit motion (测试按距离发射)
//	S                 - Toggle the stats overlay
//	- / =             - Decrease/increase simulation speed
//	Escape            - Quit
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata/v2"

	"github.com/gonewx/vfx/pkg/config"
	"github.com/gonewx/vfx/pkg/viewer"
)

func main() {
	dir := flag.String("dir", "data/effects", "preset directory")
	effect := flag.String("effect", "", "effect to start with")
	speed := flag.Float64("speed", 0, "initial simulation speed multiplier")
	flag.Parse()

	configs, err := config.ListEffectConfigs(*dir)
	if err != nil {
		log.Fatalf("Failed to load effect presets: %v", err)
	}
	if len(configs) == 0 {
		log.Fatalf("No effect presets found in %s", *dir)
	}

	// gdata 打开失败时降级为仅内存设置，不阻止启动
	gdataManager, err := gdata.Open(gdata.Config{AppName: "vfxview"})
	if err != nil {
		log.Printf("Warning: persistent settings unavailable: %v", err)
		gdataManager = nil
	}
	settings, err := viewer.NewSettingsManager(gdataManager)
	if err != nil {
		log.Printf("Warning: failed to load settings: %v", err)
	}

	// 命令行参数覆盖保存的设置
	if *effect != "" {
		settings.SetLastEffect(*effect)
	}
	if *speed > 0 {
		settings.SetSpeed(*speed)
	}

	game, err := viewer.NewGame(configs, settings)
	if err != nil {
		log.Fatalf("Failed to create viewer: %v", err)
	}

	ebiten.SetWindowSize(960, 540)
	ebiten.SetWindowTitle("vfx viewer")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
