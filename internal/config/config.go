// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/taigrr/prism/internal/logger"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Shader names accepted in render.shader.
const (
	ShaderPhong     = "phong"
	ShaderLambert   = "lambert"
	ShaderFlat      = "flat"
	ShaderWireframe = "wireframe"
)

// Config holds all viewer settings. Angles are in degrees.
type Config struct {
	Render   RenderConfig   `yaml:"render"`
	Camera   CameraConfig   `yaml:"camera"`
	Lights   []LightConfig  `yaml:"lights"`
	Material MaterialConfig `yaml:"material"`
	Model    ModelConfig    `yaml:"model"`
	Viewer   ViewerConfig   `yaml:"viewer"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// RenderConfig holds output and projection settings.
type RenderConfig struct {
	Width      int     `yaml:"width"`  // Used by the window and PNG outputs
	Height     int     `yaml:"height"` // The terminal sizes itself
	FOVDegrees float64 `yaml:"fov_degrees"`
	Near       float64 `yaml:"near"`
	Far        float64 `yaml:"far"`
	Background string  `yaml:"background"` // #rrggbb
	Shader     string  `yaml:"shader"`
	CullModels bool    `yaml:"cull_models"`
}

// CameraConfig holds the starting camera and its control rates.
type CameraConfig struct {
	Eye          [3]float64 `yaml:"eye"`
	YawDegrees   float64    `yaml:"yaw_degrees"`
	PitchDegrees float64    `yaml:"pitch_degrees"`
	Speed        float64    `yaml:"speed"`        // World units per key press
	TurnDegrees  float64    `yaml:"turn_degrees"` // Per arrow key press
	MouseDegrees float64    `yaml:"mouse_degrees"`
}

// LightConfig describes one point light.
type LightConfig struct {
	Color    [3]float64 `yaml:"color"`
	Position [3]float64 `yaml:"position"`
	Diffuse  float64    `yaml:"diffuse"`
	Specular float64    `yaml:"specular"`
}

// MaterialConfig holds surface settings shared by every shader.
type MaterialConfig struct {
	Ambient float64    `yaml:"ambient"`
	Tint    [3]float64 `yaml:"tint"`
}

// ModelConfig names the mesh and its image maps.
type ModelConfig struct {
	Path        string  `yaml:"path"` // Empty renders the built-in cube
	Texture     string  `yaml:"texture"`
	NormalMap   string  `yaml:"normal_map"`
	SpecularMap string  `yaml:"specular_map"`
	Size        float64 `yaml:"size"` // Edge of the cube the mesh is fitted into
	Checker     bool    `yaml:"checker"`
}

// ViewerConfig holds interactive settings.
type ViewerConfig struct {
	FPS         int     `yaml:"fps"`
	Spin        bool    `yaml:"spin"`
	SpinDegrees float64 `yaml:"spin_degrees"` // Model rotation per key press
	Grid        bool    `yaml:"grid"`         // Draw the ground grid and axes
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Width:      640,
			Height:     480,
			FOVDegrees: 60,
			Near:       0.1,
			Far:        100,
			Background: "#1e1e28",
			Shader:     ShaderPhong,
		},
		Camera: CameraConfig{
			Eye:          [3]float64{0, 0, 3},
			Speed:        0.25,
			TurnDegrees:  5,
			MouseDegrees: 0.2,
		},
		Lights: []LightConfig{
			{Color: [3]float64{1, 1, 1}, Position: [3]float64{3, 4, 5}, Diffuse: 0.8, Specular: 0.5},
			{Color: [3]float64{0.4, 0.5, 0.9}, Position: [3]float64{-4, 1, -2}, Diffuse: 0.4, Specular: 0.2},
		},
		Material: MaterialConfig{
			Ambient: 0.25,
			Tint:    [3]float64{0.85, 0.85, 0.85},
		},
		Model: ModelConfig{
			Size: 1.5,
		},
		Viewer: ViewerConfig{
			FPS:         30,
			Spin:        true,
			SpinDegrees: 5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every out-of-range setting in one error.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Render.Width > 0 && c.Render.Height > 0, "render size %dx%d must be positive", c.Render.Width, c.Render.Height)
	check(c.Render.FOVDegrees > 0 && c.Render.FOVDegrees < 180, "render.fov_degrees %.1f outside (0, 180)", c.Render.FOVDegrees)
	check(c.Render.Near >= 0, "render.near %.3f must not be negative", c.Render.Near)
	check(c.Render.Far > c.Render.Near, "render.far %.3f must exceed near %.3f", c.Render.Far, c.Render.Near)
	if _, err := ParseColor(c.Render.Background); err != nil {
		errs = append(errs, fmt.Errorf("render.background: %w", err))
	}
	switch c.Render.Shader {
	case ShaderPhong, ShaderLambert, ShaderFlat, ShaderWireframe:
	default:
		errs = append(errs, fmt.Errorf("render.shader %q is not one of phong, lambert, flat, wireframe", c.Render.Shader))
	}
	check(c.Camera.Speed > 0, "camera.speed %.3f must be positive", c.Camera.Speed)
	check(c.Model.Size > 0, "model.size %.3f must be positive", c.Model.Size)
	check(c.Viewer.FPS > 0, "viewer.fps %d must be positive", c.Viewer.FPS)
	check(logger.ValidLevel(c.Logging.Level), "logging.level %q is not one of %s", c.Logging.Level, strings.Join(logger.Levels, ", "))

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// BackgroundPixel returns the background as a packed 0xAARRGGBB pixel.
func (c *Config) BackgroundPixel() uint32 {
	p, err := ParseColor(c.Render.Background)
	if err != nil {
		return 0xFF000000
	}
	return p
}

// ParseColor parses #rrggbb into an opaque packed pixel.
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return 0xFF000000 | uint32(v), nil
}
