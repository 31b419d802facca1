package viewer

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ViewerSettings 查看器设置，跨会话保留
type ViewerSettings struct {
	// LastEffect 上次预览的效果名，启动时自动恢复
	LastEffect string `yaml:"lastEffect"`

	// Speed 模拟速度倍率 0.1 ~ 4.0
	Speed float64 `yaml:"speed"`

	// OrbitEnabled 发射器节点是否沿轨道运动
	OrbitEnabled bool `yaml:"orbitEnabled"`

	// ShowStats 是否显示左上角的统计信息
	ShowStats bool `yaml:"showStats"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() *ViewerSettings {
	return &ViewerSettings{
		Speed:        1.0,
		OrbitEnabled: true,
		ShowStats:    true,
	}
}

// SettingsManager 设置管理器
// 负责查看器设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，仅内存设置）
	settings     *ViewerSettings
}

// 存储路径常量
const (
	settingsObject   = "viewer"
	settingsProperty = "settings"
)

// NewSettingsManager 创建设置管理器
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 如果加载设置失败返回错误（不影响创建）
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	var loaded ViewerSettings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	sm.settings = &loaded
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *ViewerSettings {
	return sm.settings
}

// SetLastEffect 记录当前预览的效果名
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetLastEffect(name string) {
	sm.settings.LastEffect = name
}

// SetSpeed 设置模拟速度倍率，限制在 0.1 ~ 4.0
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetSpeed(speed float64) {
	sm.settings.Speed = clampSpeed(speed)
}

// SetOrbitEnabled 设置发射器轨道运动开关
func (sm *SettingsManager) SetOrbitEnabled(enabled bool) {
	sm.settings.OrbitEnabled = enabled
}

// SetShowStats 设置统计信息显示开关
func (sm *SettingsManager) SetShowStats(show bool) {
	sm.settings.ShowStats = show
}

// clampSpeed 把速度倍率限制在 0.1 ~ 4.0
func clampSpeed(speed float64) float64 {
	if speed < 0.1 {
		return 0.1
	}
	if speed > 4.0 {
		return 4.0
	}
	return speed
}
