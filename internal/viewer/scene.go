// Package viewer assembles a renderable scene from configuration and
// drives it frame by frame from input actions.
package viewer

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/taigrr/prism/internal/config"
	"github.com/taigrr/prism/internal/logger"
	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/models"
	"github.com/taigrr/prism/pkg/render"
)

// Shader cycle order for ActionCycleShader.
var shaderCycle = []string{
	config.ShaderPhong,
	config.ShaderLambert,
	config.ShaderFlat,
	config.ShaderWireframe,
}

// Wireframe line color.
var wireColor = render.Pack(render.RGB(0, 255, 128))

// Ground grid drawn under the model when ShowGrid is set: 4 units wide
// with half-unit cells, plus unit-length world axes.
const (
	gridSize = 4
	gridStep = 0.5
	axisLen  = 1
)

var gridColor = render.Pack(render.RGB(90, 90, 110))

// Scene owns everything needed to render one model: camera, projection,
// rasterizer, lights and the model's spring-driven rotation.
type Scene struct {
	cfg *config.Config

	Camera     *render.Camera
	Model      *render.Model
	Rasterizer *render.Rasterizer
	Rotation   *RotationState

	Name       string
	Tint       math3d.Vec4
	Background uint32
	ShowHUD    bool
	ShowGrid   bool

	phong   *render.PhongShader
	lambert render.LambertShader
	shader  string

	frames int
}

// NewScene loads the configured model and builds a scene rendering into a
// width x height framebuffer.
func NewScene(cfg *config.Config, width, height int) (*Scene, error) {
	mesh, name, err := loadMesh(cfg.Model)
	if err != nil {
		return nil, err
	}

	fb := render.NewFramebuffer(width, height)
	proj, err := render.NewProjection(
		math3d.Radians(cfg.Render.FOVDegrees),
		aspect(width, height),
		cfg.Render.Near,
		cfg.Render.Far,
	)
	if err != nil {
		return nil, err
	}

	camera := render.NewCamera(vec3(cfg.Camera.Eye), cfg.Camera.Speed)
	camera.Rotate(math3d.Radians(cfg.Camera.YawDegrees), math3d.Radians(cfg.Camera.PitchDegrees))

	rast := render.NewRasterizer(camera, proj, fb)
	rast.CullModels = cfg.Render.CullModels

	s := &Scene{
		cfg:        cfg,
		Camera:     camera,
		Model:      render.NewModel(mesh),
		Rasterizer: rast,
		Rotation:   NewRotationState(cfg.Viewer.FPS),
		Name:       name,
		Tint:       math3d.V4FromV3(vec3(cfg.Material.Tint), 1),
		Background: cfg.BackgroundPixel(),
		phong:      &render.PhongShader{Ambient: cfg.Material.Ambient},
		lambert: render.LambertShader{
			Direction: math3d.V3(0.5, 1, 0.3).Normalize(),
			Ambient:   cfg.Material.Ambient,
		},
		shader:   cfg.Render.Shader,
		ShowGrid: cfg.Viewer.Grid,
	}

	for _, l := range cfg.Lights {
		s.phong.Lights = append(s.phong.Lights, render.Light{
			Color:             math3d.V4FromV3(vec3(l.Color), 1),
			Position:          vec3(l.Position),
			DiffuseIntensity:  l.Diffuse,
			SpecularIntensity: l.Specular,
		})
	}

	s.bindMaps(mesh)
	s.SetSpin(cfg.Viewer.Spin)

	logger.Info("scene ready",
		zap.String("model", name),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.String("shader", s.shader),
		zap.Int("lights", len(s.phong.Lights)),
	)
	return s, nil
}

// loadMesh loads the configured mesh, or the built-in cube when no path is
// set, fitted into a cube of edge cfg.Size.
func loadMesh(cfg config.ModelConfig) (*models.Mesh, string, error) {
	if cfg.Path == "" {
		return models.NewCube(cfg.Size), "cube", nil
	}

	mesh, err := models.Load(cfg.Path)
	if err != nil {
		return nil, "", fmt.Errorf("load model: %w", err)
	}
	return mesh.Normalize(cfg.Size), filepath.Base(cfg.Path), nil
}

// bindMaps loads the configured image maps. Failed maps are logged and
// left unbound; an embedded glTF texture or the checker fills in for a
// missing base color map.
func (s *Scene) bindMaps(mesh *models.Mesh) {
	maps, err := render.LoadMaps(render.MapPaths{
		Texture:     s.cfg.Model.Texture,
		NormalMap:   s.cfg.Model.NormalMap,
		SpecularMap: s.cfg.Model.SpecularMap,
	})
	if err != nil {
		logger.Warn("image maps unavailable", zap.Error(err))
	}

	if maps.Texture == nil {
		if img := mesh.BaseMap(); img != nil {
			maps.Texture = render.TextureFromImage(img)
			logger.Debug("using embedded texture",
				zap.Int("width", maps.Texture.Width),
				zap.Int("height", maps.Texture.Height))
		} else if s.cfg.Model.Checker {
			maps.Texture = render.NewCheckerTexture(64, 64, 8, render.RGB(200, 200, 200), render.RGB(100, 100, 100))
		}
	}

	s.Model.SetMaps(maps)
}

// Shader returns the active shader name.
func (s *Scene) Shader() string { return s.shader }

// SetShader selects a shader by name.
func (s *Scene) SetShader(name string) error {
	switch name {
	case config.ShaderPhong, config.ShaderLambert, config.ShaderFlat, config.ShaderWireframe:
		s.shader = name
		return nil
	}
	return fmt.Errorf("unknown shader %q", name)
}

// pixelShader returns the PixelShader for the active mode; wireframe has
// none.
func (s *Scene) pixelShader() render.PixelShader {
	switch s.shader {
	case config.ShaderLambert:
		return s.lambert
	case config.ShaderFlat:
		return render.FlatColorShader{}
	case config.ShaderWireframe:
		return nil
	default:
		return s.phong
	}
}

// Spinning reports whether the model turns on its own.
func (s *Scene) Spinning() bool { return s.Rotation.SpinRate != 0 }

// SetSpin turns the automatic yaw spin on or off. The spin completes one
// turn every ten seconds.
func (s *Scene) SetSpin(on bool) {
	if !on {
		s.Rotation.SpinRate = 0
		return
	}
	s.Rotation.SpinRate = 2 * math3d.Radians(180) / (10 * float64(s.cfg.Viewer.FPS))
}

// Resize rebuilds the framebuffer and projection for a new output size.
func (s *Scene) Resize(width, height int) error {
	proj, err := s.Rasterizer.Projection().WithAspect(aspect(width, height))
	if err != nil {
		return err
	}
	s.Rasterizer.SetProjection(proj)
	s.Rasterizer.SetFramebuffer(render.NewFramebuffer(width, height))
	logger.Debug("resized", zap.Int("width", width), zap.Int("height", height))
	return nil
}

// Apply performs one action. It reports false for ActionQuit.
func (s *Scene) Apply(a Action) bool {
	step := math3d.Radians(s.cfg.Viewer.SpinDegrees)
	turn := math3d.Radians(s.cfg.Camera.TurnDegrees)

	switch a {
	case ActionMoveForward:
		s.Camera.MoveForward(s.Camera.Speed)
	case ActionMoveBack:
		s.Camera.MoveBack(s.Camera.Speed)
	case ActionMoveLeft:
		s.Camera.MoveLeft(s.Camera.Speed)
	case ActionMoveRight:
		s.Camera.MoveRight(s.Camera.Speed)
	case ActionTurnLeft:
		s.Camera.Rotate(turn, 0)
	case ActionTurnRight:
		s.Camera.Rotate(-turn, 0)
	case ActionLookUp:
		s.Camera.Rotate(0, turn)
	case ActionLookDown:
		s.Camera.Rotate(0, -turn)
	case ActionModelYawLeft:
		s.Rotation.Nudge(0, -step, 0)
	case ActionModelYawRight:
		s.Rotation.Nudge(0, step, 0)
	case ActionModelPitchUp:
		s.Rotation.Nudge(-step, 0, 0)
	case ActionModelPitchDown:
		s.Rotation.Nudge(step, 0, 0)
	case ActionModelRollLeft:
		s.Rotation.Nudge(0, 0, step)
	case ActionModelRollRight:
		s.Rotation.Nudge(0, 0, -step)
	case ActionToggleSpin:
		s.SetSpin(!s.Spinning())
	case ActionCycleShader:
		s.cycleShader()
	case ActionToggleHUD:
		s.ShowHUD = !s.ShowHUD
	case ActionToggleGrid:
		s.ShowGrid = !s.ShowGrid
	case ActionReset:
		s.reset()
	case ActionQuit:
		return false
	}

	if a != ActionNone {
		logger.Debug("action", zap.Stringer("action", a))
	}
	return true
}

// Drag rotates the camera by a mouse movement of (dx, dy) pixels, with y
// growing downward.
func (s *Scene) Drag(dx, dy int) {
	deg := math3d.Radians(s.cfg.Camera.MouseDegrees)
	s.Camera.Rotate(-float64(dx)*deg, -float64(dy)*deg)
}

func (s *Scene) cycleShader() {
	for i, name := range shaderCycle {
		if name == s.shader {
			s.shader = shaderCycle[(i+1)%len(shaderCycle)]
			return
		}
	}
	s.shader = shaderCycle[0]
}

func (s *Scene) reset() {
	s.Camera.Eye = vec3(s.cfg.Camera.Eye)
	s.Camera.Yaw = 0
	s.Camera.Pitch = 0
	s.Camera.Rotate(math3d.Radians(s.cfg.Camera.YawDegrees), math3d.Radians(s.cfg.Camera.PitchDegrees))
	s.Rotation.Reset()
}

// Step advances the model rotation by one frame without drawing.
func (s *Scene) Step() {
	s.Rotation.Update()
	s.Model.SetRotation(s.Rotation.Matrix())
}

// Render draws the scene at its current state and returns the framebuffer.
func (s *Scene) Render() *render.Framebuffer {
	start := time.Now()
	r := s.Rasterizer
	r.Clear(s.Background)

	if shader := s.pixelShader(); shader != nil {
		r.Draw(s.Model, s.Tint, shader)
	} else {
		r.DrawWireframe(s.Model, wireColor)
	}

	// Lines ignore depth, so the grid is drawn over the model and the
	// axes over the grid.
	if s.ShowGrid {
		r.DrawGrid(gridSize, gridStep, gridColor)
		r.DrawAxes(axisLen)
	}

	s.frames++
	if s.frames%(s.cfg.Viewer.FPS*5) == 1 {
		st := r.Stats
		logger.Debug("frame",
			zap.Int("frame", s.frames),
			zap.Duration("elapsed", time.Since(start)),
			zap.Int("triangles", st.Triangles),
			zap.Int("backface", st.BackfaceCulled),
			zap.Int("near", st.NearRejected),
			zap.Int("degenerate", st.Degenerate),
			zap.Int("pixels", st.Pixels),
			zap.Int("models_culled", st.ModelsCulled),
		)
	}
	return r.Framebuffer()
}

// Frame steps the rotation and renders.
func (s *Scene) Frame() *render.Framebuffer {
	s.Step()
	return s.Render()
}

func vec3(a [3]float64) math3d.Vec3 {
	return math3d.V3(a[0], a[1], a[2])
}

func aspect(width, height int) float64 {
	if height == 0 {
		return 1
	}
	return float64(width) / float64(height)
}
