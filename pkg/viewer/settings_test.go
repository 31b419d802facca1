package viewer

import (
	"os"
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// TestDefaultSettings 测试 DefaultSettings() 返回正确的默认值
func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	if settings == nil {
		t.Fatal("DefaultSettings() returned nil")
	}
	if settings.Speed != 1.0 {
		t.Errorf("Speed: got %v, want 1.0", settings.Speed)
	}
	if !settings.OrbitEnabled {
		t.Error("OrbitEnabled: got false, want true")
	}
	if !settings.ShowStats {
		t.Error("ShowStats: got false, want true")
	}
	if settings.LastEffect != "" {
		t.Errorf("LastEffect: got %q, want empty", settings.LastEffect)
	}
}

// TestNewSettingsManagerNilGdata 测试 gdataManager 为 nil 时的降级场景
func TestNewSettingsManagerNilGdata(t *testing.T) {
	sm, err := NewSettingsManager(nil)
	if err != nil {
		t.Fatalf("NewSettingsManager(nil) error: %v", err)
	}

	if sm.GetSettings().Speed != 1.0 {
		t.Errorf("Degraded mode Speed: got %v, want 1.0", sm.GetSettings().Speed)
	}

	// 降级模式下保存不报错
	sm.SetSpeed(2.0)
	if err := sm.Save(); err != nil {
		t.Errorf("Save() in degraded mode: got %v, want nil", err)
	}
}

// TestSettingsManagerSaveLoad 测试设置的保存和重新加载
func TestSettingsManagerSaveLoad(t *testing.T) {
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	defer os.Setenv("HOME", originalHome)

	gdataManager, err := gdata.Open(gdata.Config{
		AppName: "test_vfxview",
	})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}

	sm, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("NewSettingsManager() error: %v", err)
	}

	sm.SetLastEffect("sparks")
	sm.SetSpeed(0.5)
	sm.SetOrbitEnabled(false)
	if err := sm.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// 新的管理器实例应该读回同样的值
	sm2, err := NewSettingsManager(gdataManager)
	if err != nil {
		t.Fatalf("Second NewSettingsManager() error: %v", err)
	}
	settings := sm2.GetSettings()
	if settings.LastEffect != "sparks" {
		t.Errorf("LastEffect after reload: got %q, want %q", settings.LastEffect, "sparks")
	}
	if settings.Speed != 0.5 {
		t.Errorf("Speed after reload: got %v, want 0.5", settings.Speed)
	}
	if settings.OrbitEnabled {
		t.Error("OrbitEnabled after reload: got true, want false")
	}
}

// TestSetSpeedClamping 测试速度倍率的边界限制
func TestSetSpeedClamping(t *testing.T) {
	sm, _ := NewSettingsManager(nil)

	cases := []struct {
		input float64
		want  float64
	}{
		{0.05, 0.1},
		{0.1, 0.1},
		{1.5, 1.5},
		{4.0, 4.0},
		{10, 4.0},
	}
	for _, c := range cases {
		sm.SetSpeed(c.input)
		if got := sm.GetSettings().Speed; got != c.want {
			t.Errorf("SetSpeed(%v): got %v, want %v", c.input, got, c.want)
		}
	}
}
