// Package solver implements C4: a guarded Newton iteration that finds the
// LCOE making the NPV of after-tax equity cash flow zero (spec §4.4).
// Grounded on the teacher's internal/strategy package's preference for a
// small, side-effect-free numerical routine behind a narrow function
// signature, generalized from the teacher's fixed-rule strategies to a
// genuine root-find.
package solver

import (
	"math"

	"offgrid-lcoe/internal/proforma"
	"offgrid-lcoe/internal/types"
)

const (
	lowerBound    = 50.0
	upperBound    = 300.0
	initialGuess  = (lowerBound + upperBound) / 2
	tolerance     = 1e-4
	maxIterations = 10000
)

// BuildFunc evaluates the pro-forma table at a trial LCOE. proforma.Build
// satisfies this signature directly; tests substitute a stub.
type BuildFunc func(lcoe float64) (types.ProFormaTable, error)

// Result is the solved LCOE plus the table it was solved against.
type Result struct {
	LCOE       float64
	Table      types.ProFormaTable
	Iterations int
	Converged  bool
}

// Solve runs the guarded Newton iteration described in spec §4.4. build
// is called with a trial LCOE and must return the pro-forma table's NPV
// of after-tax equity cash flow via table.AfterTaxEquityCashFlow.NPV.
// lowerBound/upperBound are soft: they only seed the initial guess. The
// only per-iteration guard is halving a non-positive proposed LCOE, so a
// root outside [50, 300] is still reachable.
func Solve(build BuildFunc) (Result, error) {
	l := initialGuess

	var lastTable types.ProFormaTable
	var lastResid float64
	iterations := 0

	for iter := 1; iter <= maxIterations; iter++ {
		iterations = iter
		table, err := build(l)
		if err != nil {
			return Result{}, err
		}
		lastTable = table
		f := npvResidual(table)
		lastResid = f

		if math.Abs(f) < tolerance {
			return Result{LCOE: l, Table: table, Iterations: iter, Converged: true}, nil
		}

		delta := 0.001 * l
		shifted, err := build(l + delta)
		if err != nil {
			return Result{}, err
		}
		fShift := npvResidual(shifted)

		derivative := (fShift - f) / delta
		if derivative == 0 {
			break
		}

		next := l - f/derivative
		if next <= 0 {
			next = l / 2
		}
		l = next
	}

	return Result{LCOE: l, Table: lastTable, Iterations: iterations, Converged: false},
		&types.SolverNonConvergence{Iterations: iterations, LastLCOE: l, LastResid: lastResid}
}

// SolveWith wires Solve directly to proforma.Build for a fixed set of
// annual aggregates and rate inputs, holding everything but the trial
// LCOE constant across iterations.
func SolveWith(in proforma.Input) (Result, error) {
	return Solve(func(lcoe float64) (types.ProFormaTable, error) {
		trial := in
		trial.LCOE = lcoe
		return proforma.Build(trial)
	})
}

func npvResidual(table types.ProFormaTable) float64 {
	if table.AfterTaxEquityCashFlow.NPV == nil {
		return 0
	}
	return *table.AfterTaxEquityCashFlow.NPV
}
