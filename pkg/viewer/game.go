package viewer

import (
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/vfx/pkg/config"
	"github.com/gonewx/vfx/pkg/particle"
	"github.com/gonewx/vfx/pkg/scene"
)

// 固定逻辑帧率下每帧推进的毫秒数
const frameMs = 1000.0 / 60.0

// 轨道运动参数：半径（米）和角速度（弧度/秒）
const (
	orbitRadius  = 1.2
	orbitRadPerS = 0.9
)

// Game 是查看器的 ebiten 主循环：持有场景、当前发射器和渲染系统，
// 按固定步长推进模拟时间。
type Game struct {
	configs  []*config.EffectConfig
	settings *SettingsManager
	render   *RenderSystem

	root    *scene.Node
	host    *scene.Node
	emitter *particle.Emitter

	active    int     // 当前预设下标
	simTimeMs float64 // 模拟时钟，暂停时不走
	orbitRad  float64 // 轨道角度（弧度）
	paused    bool

	// 自动轮播：每隔 autoCycleMs 切到下一个预设
	autoCycle  bool
	cycleAgeMs float64
}

// 自动轮播的停留时长
const autoCycleMs = 4000

// NewGame 创建查看器主循环
//
// 参数:
//   - configs: 至少一个效果预设
//   - settings: 设置管理器，上次预览的效果会被恢复
//
// 返回:
//   - *Game: 查看器实例
//   - error: configs 为空时返回错误
func NewGame(configs []*config.EffectConfig, settings *SettingsManager) (*Game, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("no effect presets to preview")
	}

	g := &Game{
		configs:  configs,
		settings: settings,
		render:   NewRenderSystem(),
		root:     scene.NewNode(),
	}
	g.host = scene.NewNode()
	g.host.SetParent(g.root)

	// 恢复上次预览的效果
	g.active = 0
	for i, cfg := range configs {
		if cfg.Name == settings.GetSettings().LastEffect {
			g.active = i
			break
		}
	}
	g.rebuildEmitter()
	return g, nil
}

// rebuildEmitter 按当前预设重新创建发射器并启动
func (g *Game) rebuildEmitter() {
	cfg := g.configs[g.active]
	driver := NewDriver(cfg.Render.Additive, cfg.Render.Size)
	em := particle.NewEmitter(driver, g.host)
	cfg.Apply(em)
	em.SetRun(true)
	g.emitter = em

	g.settings.SetLastEffect(cfg.Name)
	if err := g.settings.Save(); err != nil {
		// 保存失败只影响下次启动的恢复，继续运行
		log.Printf("[Viewer] Warning: failed to save settings: %v", err)
	}
}

// switchEffect 切换预设，delta 为 ±1
func (g *Game) switchEffect(delta int) {
	g.active = (g.active + delta + len(g.configs)) % len(g.configs)
	g.rebuildEmitter()
}

// Update 实现 ebiten.Game：处理输入并按固定步长推进模拟
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) || inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		g.switchEffect(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		g.switchEffect(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
		g.emitter.SetRun(!g.paused)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.emitter.ResetEmissionCycle(true)
		g.emitter.SetRun(true)
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		g.autoCycle = !g.autoCycle
		g.cycleAgeMs = 0
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		g.settings.SetOrbitEnabled(!g.settings.GetSettings().OrbitEnabled)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.settings.SetShowStats(!g.settings.GetSettings().ShowStats)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.settings.SetSpeed(g.settings.GetSettings().Speed + 0.25)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.settings.SetSpeed(g.settings.GetSettings().Speed - 0.25)
	}

	speed := g.settings.GetSettings().Speed
	if !g.paused {
		g.simTimeMs += frameMs * speed

		if g.autoCycle {
			g.cycleAgeMs += frameMs * speed
			if g.cycleAgeMs >= autoCycleMs {
				g.cycleAgeMs = 0
				g.switchEffect(1)
			}
		}

		if g.settings.GetSettings().OrbitEnabled {
			g.orbitRad += orbitRadPerS * frameMs / 1000 * speed
			g.host.SetPosition(mgl32.Vec3{
				float32(math.Cos(g.orbitRad) * orbitRadius),
				0,
				float32(math.Sin(g.orbitRad) * orbitRadius),
			})
		}
	}

	// 暂停状态下也要调用 Update，发射器在下一帧边界处理暂停请求
	g.emitter.Update(&scene.RenderContext{TimeMs: g.simTimeMs})
	return nil
}

// Draw 实现 ebiten.Game
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 16, G: 18, B: 24, A: 255})
	g.render.Draw(screen, g.emitter)

	if g.settings.GetSettings().ShowStats {
		cfg := g.configs[g.active]
		status := "running"
		if g.paused {
			status = "paused"
		} else if g.emitter.FinishedEmissionCycle() {
			status = "finished (R to replay)"
		}
		if g.autoCycle {
			status += "  [auto]"
		}
		msg := fmt.Sprintf("effect: %s (%d/%d)\nparticles: %d\nspeed: %.2fx  %s\ntab/arrows switch  space pause  r reset  a auto  o orbit  s stats",
			cfg.Name, g.active+1, len(g.configs),
			g.emitter.LiveCount(),
			g.settings.GetSettings().Speed, status)
		ebitenutil.DebugPrint(screen, msg)
	}
}

// Layout 实现 ebiten.Game
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 960, 540
}
