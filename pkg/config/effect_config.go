// Package config loads particle effect presets from YAML files.
//
// 预设文件使用紧凑的值字符串语法描述粒子属性（见 internal/curve）：
//   - 固定值: "1500"
//   - 随机区间: "[0.7 0.9]"
//   - 关键帧曲线: "0,1 0.5,0.2 1,0"（可带插值关键字，如 "EaseOut 0,1 1,0"）
//
// 外观属性（alpha/color/scale/rotation）的关键帧时间是归一化粒子年龄
// （0-1），物理属性（velocity/acceleration）的关键帧时间是出生后的
// 毫秒数。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/gonewx/vfx/internal/curve"
	"github.com/gonewx/vfx/pkg/particle"
)

// EffectConfig 粒子效果预设
//
// 一个预设对应一个发射器的完整配置。零值字段不覆盖发射器默认值，
// 所以预设只需要写它关心的字段。
//
// 配置文件位置: data/effects/*.yaml
type EffectConfig struct {
	// Name 效果名称（默认取文件名）
	Name string `yaml:"name"`

	// Duration 发射周期时长（毫秒），0 表示使用默认值
	Duration float64 `yaml:"duration"`

	// Delay 每个周期开始前的延迟（毫秒）
	Delay float64 `yaml:"delay"`

	// Loop 周期结束后是否自动重新开始
	Loop bool `yaml:"loop"`

	// FixedToEmitter 粒子是否固定在发射器坐标系内跟随移动
	FixedToEmitter bool `yaml:"fixedToEmitter"`

	// MaxParticles 存活粒子数上限，0 表示使用默认值
	MaxParticles int `yaml:"maxParticles"`

	// Lifetime 粒子寿命（毫秒），值字符串
	Lifetime string `yaml:"lifetime"`

	// Emission 发射触发配置
	Emission EmissionConfig `yaml:"emission"`

	// Volume 出生体积配置
	Volume VolumeConfig `yaml:"volume"`

	// Explosion 初始爆炸冲量，nil 表示无爆炸
	Explosion *ExplosionConfig `yaml:"explosion"`

	// Appearance 外观属性（随归一化年龄变化）
	Appearance AppearanceConfig `yaml:"appearance"`

	// Physics 运动属性（随出生后毫秒数变化）
	Physics PhysicsConfig `yaml:"physics"`

	// Render 查看器渲染提示，不影响模拟本身
	Render RenderConfig `yaml:"render"`
}

// EmissionConfig 发射触发配置
type EmissionConfig struct {
	// RatePerSecond 每秒发射数，值字符串（固定值或区间）
	RatePerSecond string `yaml:"ratePerSecond"`

	// RatePerMeter 发射器每移动一米的发射数，值字符串
	RatePerMeter string `yaml:"ratePerMeter"`

	// Bursts 定时/定距爆发列表
	Bursts []BurstConfig `yaml:"bursts"`
}

// BurstConfig 单个爆发配置
type BurstConfig struct {
	// Factor 参考量："time"（毫秒）或 "distance"（米），默认 time
	Factor string `yaml:"factor"`

	// Particles 每次爆发的粒子数，值字符串（固定值或区间）
	Particles string `yaml:"particles"`

	// Start 首次爆发的参考量阈值
	Start float64 `yaml:"start"`

	// Interval 相邻爆发之间的参考量间隔
	Interval float64 `yaml:"interval"`

	// Cycles 爆发次数
	Cycles int `yaml:"cycles"`
}

// VolumeConfig 出生体积配置
type VolumeConfig struct {
	// Shape 形状："point"、"box" 或 "sphere"，默认 point
	Shape string `yaml:"shape"`

	// Params 形状参数：box 为 [宽 高 深]，sphere 为 [半径]
	Params []float64 `yaml:"params"`

	// Surface 只在体积表面出生
	Surface bool `yaml:"surface"`
}

// ExplosionConfig 初始爆炸冲量配置
type ExplosionConfig struct {
	// Center 爆炸中心（发射器本地坐标）
	Center [3]float64 `yaml:"center"`

	// Impulse 冲量大小（牛顿·秒）
	Impulse float64 `yaml:"impulse"`

	// DecelPeriod 冲量速度衰减周期（毫秒），0 表示不衰减
	DecelPeriod float64 `yaml:"decelPeriod"`
}

// AppearanceConfig 外观属性配置，全部为值字符串，空串表示不配置
type AppearanceConfig struct {
	// Alpha 透明度（0-1）
	Alpha string `yaml:"alpha"`

	// Red, Green, Blue 颜色通道（0-1）
	Red   string `yaml:"red"`
	Green string `yaml:"green"`
	Blue  string `yaml:"blue"`

	// Scale 均匀缩放系数
	Scale string `yaml:"scale"`

	// Rotation 绕 Z 轴旋转（度）
	Rotation string `yaml:"rotation"`
}

// PhysicsConfig 运动属性配置，每个分量一个值字符串
type PhysicsConfig struct {
	Velocity     VectorConfig `yaml:"velocity"`
	Acceleration VectorConfig `yaml:"acceleration"`
}

// VectorConfig 三维向量属性的分量配置
type VectorConfig struct {
	X string `yaml:"x"`
	Y string `yaml:"y"`
	Z string `yaml:"z"`
}

// RenderConfig 查看器渲染提示
type RenderConfig struct {
	// Additive 使用加法混合（火焰、火花类效果）
	Additive bool `yaml:"additive"`

	// Size 粒子基准尺寸（像素），0 表示使用查看器默认值
	Size float64 `yaml:"size"`
}

// LoadEffectConfig 从 YAML 文件加载效果预设
//
// 参数:
//   - path: 配置文件路径（如 "data/effects/smoke.yaml"）
//
// 返回:
//   - *EffectConfig: 加载成功后的配置结构
//   - error: 读取、解析或验证失败时返回错误
func LoadEffectConfig(path string) (*EffectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read effect config: %w", err)
	}

	var cfg EffectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse effect config: %w", err)
	}

	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid effect config %q: %w", cfg.Name, err)
	}

	return &cfg, nil
}

// ListEffectConfigs 扫描目录下的所有 .yaml 预设并按文件名排序返回
func ListEffectConfigs(dir string) ([]*EffectConfig, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read effect dir: %w", err)
	}

	var configs []*EffectConfig
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		cfg, err := LoadEffectConfig(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].Name < configs[j].Name })
	return configs, nil
}

// Validate 验证配置有效性
//
// 返回:
//   - error: 验证失败时返回错误，成功返回 nil
func (c *EffectConfig) Validate() error {
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative: %.1f", c.Duration)
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay must not be negative: %.1f", c.Delay)
	}
	if c.MaxParticles < 0 {
		return fmt.Errorf("maxParticles must not be negative: %d", c.MaxParticles)
	}

	switch c.Volume.Shape {
	case "", "point", "box", "sphere":
	default:
		return fmt.Errorf("unknown volume shape %q", c.Volume.Shape)
	}

	for i, b := range c.Emission.Bursts {
		switch b.Factor {
		case "", "time", "distance":
		default:
			return fmt.Errorf("burst %d: unknown factor %q", i, b.Factor)
		}
		if b.Cycles < 0 {
			return fmt.Errorf("burst %d: cycles must not be negative: %d", i, b.Cycles)
		}
	}

	if c.Explosion != nil && c.Explosion.Impulse < 0 {
		return fmt.Errorf("explosion impulse must not be negative: %.1f", c.Explosion.Impulse)
	}

	return nil
}

// Apply 把预设写入发射器
//
// 只覆盖预设里实际出现的字段，其余保持发射器默认值。
func (c *EffectConfig) Apply(em *particle.Emitter) {
	if c.Duration > 0 {
		em.SetDuration(c.Duration)
	}
	em.SetDelay(c.Delay)
	em.SetLoop(c.Loop)
	em.SetFixedToEmitter(c.FixedToEmitter)
	if c.MaxParticles > 0 {
		em.SetMaxParticles(c.MaxParticles)
	}

	if r, ok := parseRange(c.Lifetime); ok {
		em.SetParticleLifetime(r)
	}
	if r, ok := parseRange(c.Emission.RatePerSecond); ok {
		em.SetEmissionRatePerSecond(r)
	}
	if r, ok := parseRange(c.Emission.RatePerMeter); ok {
		em.SetEmissionRatePerDistance(r)
	}

	if len(c.Emission.Bursts) > 0 {
		bursts := make([]particle.Burst, 0, len(c.Emission.Bursts))
		for _, b := range c.Emission.Bursts {
			particles, _ := parseRange(b.Particles)
			factor := particle.FactorTime
			if b.Factor == "distance" {
				factor = particle.FactorDistance
			}
			bursts = append(bursts, particle.Burst{
				ReferenceFactor:        factor,
				Particles:              particles,
				ReferenceValueStart:    b.Start,
				ReferenceValueInterval: b.Interval,
				Cycles:                 b.Cycles,
			})
		}
		em.SetParticleBursts(bursts)
	}

	if c.Volume.Shape != "" {
		shape := particle.ShapePoint
		switch c.Volume.Shape {
		case "box":
			shape = particle.ShapeBox
		case "sphere":
			shape = particle.ShapeSphere
		}
		em.SetParticleSpawnVolume(particle.SpawnVolume{
			Shape:          shape,
			Params:         c.Volume.Params,
			SpawnOnSurface: c.Volume.Surface,
		})
	}

	if c.Explosion != nil {
		center := mgl32.Vec3{
			float32(c.Explosion.Center[0]),
			float32(c.Explosion.Center[1]),
			float32(c.Explosion.Center[2]),
		}
		decel := c.Explosion.DecelPeriod
		if decel <= 0 {
			decel = -1
		}
		em.SetInitialExplosion(center, float32(c.Explosion.Impulse), decel)
	}

	if m := buildModifier(c.Appearance.Alpha, "", ""); m != nil {
		em.SetAlphaModifier(m)
	}
	if m := buildModifier(c.Appearance.Red, c.Appearance.Green, c.Appearance.Blue); m != nil {
		em.SetColorModifier(m)
	}
	if m := buildScaleModifier(c.Appearance.Scale); m != nil {
		em.SetScaleModifier(m)
	}
	if m := buildModifier("", "", c.Appearance.Rotation); m != nil {
		em.SetRotationModifier(m)
	}
	if m := buildModifier(c.Physics.Velocity.X, c.Physics.Velocity.Y, c.Physics.Velocity.Z); m != nil {
		em.SetVelocityModifier(m)
	}
	if m := buildModifier(c.Physics.Acceleration.X, c.Physics.Acceleration.Y, c.Physics.Acceleration.Z); m != nil {
		em.SetAccelerationModifier(m)
	}
}

// parseRange 把值字符串解析成数值区间。关键帧形式没有区间语义，
// 和空串一样返回 ok=false。
func parseRange(s string) (particle.Range, bool) {
	if strings.TrimSpace(s) == "" {
		return particle.Range{}, false
	}
	min, max, frames, _ := curve.ParseValue(s)
	if frames != nil {
		return particle.Range{}, false
	}
	return particle.Range{Min: min, Max: max}, true
}

// buildScaleModifier 组装缩放修改器。缩放是均匀缩放：区间形式的值
// 每个粒子只采样一个标量，复制到三个分量，避免粒子被各向异性拉伸。
// 关键帧形式的曲线本身是确定的，按普通三分量路径处理。
func buildScaleModifier(s string) *particle.Modifier {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	min, max, frames, _ := curve.ParseValue(s)
	if frames != nil {
		return buildModifier(s, s, s)
	}
	if min == max {
		v := float32(min)
		return particle.NewConstantModifier(mgl32.Vec3{v, v, v})
	}
	return particle.NewUniformRandomModifier(min, max)
}

// buildModifier 用三个分量的值字符串组装一个属性修改器。
//
// 三个分量都为空时返回 nil（属性未配置）。任一分量带关键帧时，
// 取所有分量关键帧时间的并集重新采样成向量关键帧；没有关键帧的
// 分量在曲线上取其区间中点（出生时的随机采样仍然逐分量生效）。
func buildModifier(xs, ys, zs string) *particle.Modifier {
	if strings.TrimSpace(xs) == "" && strings.TrimSpace(ys) == "" && strings.TrimSpace(zs) == "" {
		return nil
	}

	type channel struct {
		min, max float64
		frames   []curve.Keyframe
		interp   string
	}
	parse := func(s string) channel {
		min, max, frames, interp := curve.ParseValue(s)
		return channel{min: min, max: max, frames: frames, interp: interp}
	}
	chans := [3]channel{parse(xs), parse(ys), parse(zs)}

	minVec := mgl32.Vec3{float32(chans[0].min), float32(chans[1].min), float32(chans[2].min)}
	maxVec := mgl32.Vec3{float32(chans[0].max), float32(chans[1].max), float32(chans[2].max)}

	var times []float64
	interp := ""
	for _, ch := range chans {
		for _, f := range ch.frames {
			times = append(times, f.Time)
		}
		if interp == "" {
			interp = ch.interp
		}
	}
	if len(times) == 0 {
		if minVec == maxVec {
			return particle.NewConstantModifier(minVec)
		}
		return particle.NewRandomModifier(minVec, maxVec)
	}

	sort.Float64s(times)
	frames := make([]particle.VecKeyframe, 0, len(times))
	var prev float64
	for i, t := range times {
		if i > 0 && t == prev {
			continue
		}
		prev = t
		var v mgl32.Vec3
		for axis, ch := range chans {
			if len(ch.frames) > 0 {
				v[axis] = float32(curve.EvaluateKeyframes(ch.frames, t, ch.interp))
			} else {
				v[axis] = float32((ch.min + ch.max) / 2)
			}
		}
		frames = append(frames, particle.VecKeyframe{Time: t, Value: v})
	}
	return particle.NewInterpolatedModifier(minVec, maxVec, frames, interp)
}
