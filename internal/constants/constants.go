// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Solver constants
const (
	// SolverGonum selects the LAPACK-backed symmetric eigensolver
	SolverGonum = "gonum"

	// SolverJacobi selects the cyclic Jacobi eigensolver
	SolverJacobi = "jacobi"
)

// Output file names written by the recognize command
const (
	TrainingReconstructionPattern = "training_reconstructed_%d.png"
	TestingReconstructionName     = "testing_reconstructed_0.png"
	EigenfacePattern              = "eigenface_%d.png"
)

// Web server constants
const (
	// ShutdownTimeoutSeconds bounds graceful shutdown
	ShutdownTimeoutSeconds = 10
)
