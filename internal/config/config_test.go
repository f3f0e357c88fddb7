package config

import (
	"testing"

	"github.com/kozaktomas/eigenface/internal/constants"
	"github.com/kozaktomas/eigenface/internal/eigenface"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Face.Width != 125 || cfg.Face.Height != 150 {
		t.Errorf("expected 125x150 face, got %dx%d", cfg.Face.Width, cfg.Face.Height)
	}
	if cfg.Solver.Name != constants.SolverGonum {
		t.Errorf("expected gonum solver, got %q", cfg.Solver.Name)
	}
	if cfg.Solver.Tolerance != 1e-12 || cfg.Solver.MaxSweeps != 100 {
		t.Errorf("unexpected solver defaults %+v", cfg.Solver)
	}
	if cfg.Web.Addr() != "0.0.0.0:8080" {
		t.Errorf("expected 0.0.0.0:8080, got %s", cfg.Web.Addr())
	}
	if cfg.Web.MaxUploadBytes() != 64<<20 {
		t.Errorf("expected %d byte uploads, got %d", 64<<20, cfg.Web.MaxUploadBytes())
	}
	if cfg.Gallery.Workers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.Gallery.Workers)
	}
	if len(cfg.Web.AllowedOrigins) != 1 || cfg.Web.AllowedOrigins[0] != "*" {
		t.Errorf("unexpected allowed origins %v", cfg.Web.AllowedOrigins)
	}
}

func TestLoad_DefaultsWithoutEnv(t *testing.T) {
	for _, key := range []string{"FACE_WIDTH", "FACE_HEIGHT", "EIGEN_SOLVER", "GALLERY_WORKERS", "WEB_PORT", "WEB_MAX_UPLOAD_MB"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	d := Defaults()

	if cfg.Face != d.Face || cfg.Solver != d.Solver || cfg.Gallery != d.Gallery {
		t.Errorf("Load() without env = %+v, want defaults %+v", cfg, d)
	}
	if cfg.Web.Port != d.Web.Port || cfg.Web.MaxUploadMB != d.Web.MaxUploadMB {
		t.Errorf("unexpected web config %+v", cfg.Web)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FACE_WIDTH", "40")
	t.Setenv("FACE_HEIGHT", "50")
	t.Setenv("EIGEN_SOLVER", "jacobi")
	t.Setenv("JACOBI_TOLERANCE", "1e-9")
	t.Setenv("JACOBI_MAX_SWEEPS", "12")
	t.Setenv("GALLERY_WORKERS", "3")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FILE", "/tmp/eigenface.log")
	t.Setenv("WEB_HOST", "127.0.0.1")
	t.Setenv("WEB_PORT", "9000")
	t.Setenv("WEB_MAX_UPLOAD_MB", "8")
	t.Setenv("WEB_ALLOWED_ORIGINS", "http://a.example, http://b.example,")

	cfg := Load()

	if cfg.Face.Pixels() != 2000 {
		t.Errorf("expected 2000 pixels, got %d", cfg.Face.Pixels())
	}
	if cfg.Solver.Name != "jacobi" || cfg.Solver.Tolerance != 1e-9 || cfg.Solver.MaxSweeps != 12 {
		t.Errorf("unexpected solver config %+v", cfg.Solver)
	}
	if cfg.Gallery.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.Gallery.Workers)
	}
	if cfg.Log.Level != "debug" || cfg.Log.File != "/tmp/eigenface.log" {
		t.Errorf("unexpected log config %+v", cfg.Log)
	}
	if cfg.Web.Addr() != "127.0.0.1:9000" {
		t.Errorf("expected 127.0.0.1:9000, got %s", cfg.Web.Addr())
	}
	if cfg.Web.MaxUploadBytes() != 8<<20 {
		t.Errorf("expected %d bytes, got %d", 8<<20, cfg.Web.MaxUploadBytes())
	}
	if len(cfg.Web.AllowedOrigins) != 2 || cfg.Web.AllowedOrigins[1] != "http://b.example" {
		t.Errorf("unexpected allowed origins %v", cfg.Web.AllowedOrigins)
	}
}

func TestEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
	}{
		{"unset", "", 7},
		{"valid", "12", 12},
		{"zero", "0", 7},
		{"negative", "-3", 7},
		{"garbage", "abc", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_ENV_INT", tt.value)
			if got := envInt("TEST_ENV_INT", 7); got != tt.expected {
				t.Errorf("envInt() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestEnvFloat(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected float64
	}{
		{"unset", "", 0.5},
		{"valid", "1e-6", 1e-6},
		{"zero", "0", 0.5},
		{"garbage", "tiny", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_ENV_FLOAT", tt.value)
			if got := envFloat("TEST_ENV_FLOAT", 0.5); got != tt.expected {
				t.Errorf("envFloat() = %g, want %g", got, tt.expected)
			}
		})
	}
}

func TestSolverDecomposer(t *testing.T) {
	d, err := SolverConfig{Name: "gonum"}.Decomposer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := d.(eigenface.SymmetricDecomposer); !ok {
		t.Errorf("expected SymmetricDecomposer, got %T", d)
	}

	d, err = SolverConfig{Name: "JACOBI", Tolerance: 1e-8, MaxSweeps: 5}.Decomposer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	j, ok := d.(eigenface.JacobiDecomposer)
	if !ok {
		t.Fatalf("expected JacobiDecomposer, got %T", d)
	}
	if j.Tol != 1e-8 || j.MaxSweeps != 5 {
		t.Errorf("unexpected jacobi settings %+v", j)
	}

	if _, err := (SolverConfig{Name: "lapack"}).Decomposer(); err == nil {
		t.Error("expected error for unknown solver")
	}
}
