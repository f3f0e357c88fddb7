package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kozaktomas/eigenface/internal/constants"
	"github.com/kozaktomas/eigenface/internal/eigenface"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Face    FaceConfig    `yaml:"face"`
	Solver  SolverConfig  `yaml:"solver"`
	Gallery GalleryConfig `yaml:"gallery"`
	Log     LogConfig     `yaml:"log"`
	Web     WebConfig     `yaml:"web"`
}

type FaceConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Pixels returns the length of every face vector.
func (c FaceConfig) Pixels() int {
	return c.Width * c.Height
}

type SolverConfig struct {
	Name      string  `yaml:"name"`       // gonum or jacobi
	Tolerance float64 `yaml:"tolerance"`  // jacobi only
	MaxSweeps int     `yaml:"max_sweeps"` // jacobi only
}

// Decomposer returns the eigensolver selected by Name.
func (c SolverConfig) Decomposer() (eigenface.Decomposer, error) {
	switch strings.ToLower(c.Name) {
	case "", constants.SolverGonum:
		return eigenface.SymmetricDecomposer{}, nil
	case constants.SolverJacobi:
		return eigenface.JacobiDecomposer{Tol: c.Tolerance, MaxSweeps: c.MaxSweeps}, nil
	default:
		return nil, fmt.Errorf("unknown eigen solver %q (expected %s or %s)", c.Name, constants.SolverGonum, constants.SolverJacobi)
	}
}

type GalleryConfig struct {
	Workers int `yaml:"workers"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // rotated log file, stdout only when empty
}

type WebConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	MaxUploadMB    int      `yaml:"max_upload_mb"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Addr returns the host:port the server listens on.
func (c WebConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MaxUploadBytes returns the request body limit in bytes.
func (c WebConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func envList(key string, defaultVal []string) []string {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

// Defaults returns the configuration stored in the embedded defaults.yaml.
func Defaults() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}
	return &cfg
}

func Load() *Config {
	d := Defaults()

	return &Config{
		Face: FaceConfig{
			Width:  envInt("FACE_WIDTH", d.Face.Width),
			Height: envInt("FACE_HEIGHT", d.Face.Height),
		},
		Solver: SolverConfig{
			Name:      envString("EIGEN_SOLVER", d.Solver.Name),
			Tolerance: envFloat("JACOBI_TOLERANCE", d.Solver.Tolerance),
			MaxSweeps: envInt("JACOBI_MAX_SWEEPS", d.Solver.MaxSweeps),
		},
		Gallery: GalleryConfig{
			Workers: envInt("GALLERY_WORKERS", d.Gallery.Workers),
		},
		Log: LogConfig{
			Level: envString("LOG_LEVEL", d.Log.Level),
			File:  envString("LOG_FILE", d.Log.File),
		},
		Web: WebConfig{
			Host:           envString("WEB_HOST", d.Web.Host),
			Port:           envInt("WEB_PORT", d.Web.Port),
			MaxUploadMB:    envInt("WEB_MAX_UPLOAD_MB", d.Web.MaxUploadMB),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS", d.Web.AllowedOrigins),
		},
	}
}
