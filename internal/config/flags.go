package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile     = flag.String("log-file", "", "Write logs to this file")
	flagWidth       = flag.Int("width", 0, "Output width in pixels (window and PNG)")
	flagHeight      = flag.Int("height", 0, "Output height in pixels (window and PNG)")
	flagFOV         = flag.Float64("fov", 0, "Vertical field of view in degrees")
	flagShader      = flag.String("shader", "", "Shader: phong, lambert, flat or wireframe")
	flagTexture     = flag.String("texture", "", "Path to texture image")
	flagNormalMap   = flag.String("normal-map", "", "Path to world-space normal map image")
	flagSpecularMap = flag.String("specular-map", "", "Path to specular map image")
	flagFPS         = flag.Int("fps", 0, "Target FPS")
	flagBackground  = flag.String("bg", "", "Background color (#rrggbb)")
	flagCull        = flag.Bool("cull", false, "Skip models outside the view frustum")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// ModelArg returns the model path given as the first positional argument.
func ModelArg() string {
	return flag.Arg(0)
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagWidth > 0 {
		cfg.Render.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Render.Height = *flagHeight
	}
	if *flagFOV > 0 {
		cfg.Render.FOVDegrees = *flagFOV
	}
	if *flagShader != "" {
		cfg.Render.Shader = *flagShader
	}
	if *flagBackground != "" {
		cfg.Render.Background = *flagBackground
	}
	if *flagCull {
		cfg.Render.CullModels = true
	}
	if *flagTexture != "" {
		cfg.Model.Texture = *flagTexture
	}
	if *flagNormalMap != "" {
		cfg.Model.NormalMap = *flagNormalMap
	}
	if *flagSpecularMap != "" {
		cfg.Model.SpecularMap = *flagSpecularMap
	}
	if *flagFPS > 0 {
		cfg.Viewer.FPS = *flagFPS
	}
	if arg := ModelArg(); arg != "" {
		cfg.Model.Path = arg
	}
}
