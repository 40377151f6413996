// Package optimizer maximizes plant NPV over a bounded set of decision
// variables, subject to the levelized cost staying at or below the selling
// price. The numerical search is delegated to gonum's Nelder-Mead
// implementation; bound and constraint violations are handled with quadratic
// penalties and the final candidate is clamped and re-evaluated exactly.
package optimizer

import (
	"fmt"
	"math"

	"github.com/hydrocast/hydrocast/internal/config"
	"github.com/hydrocast/hydrocast/internal/model"
	"github.com/hydrocast/hydrocast/pkg/mathutil"
	"github.com/hydrocast/hydrocast/pkg/optimization"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/optimize"
)

// convergeWindow is the number of Nelder-Mead iterations over which the
// best function value must improve by less than the tolerance.
const convergeWindow = 25

// Runner executes one optimization request against a parameter set.
type Runner struct {
	logger *zap.Logger
	params model.ParameterSet
	spec   config.OptimizationConfig
}

// Result reports the outcome of an optimization run. Converged=false is an
// expected, reportable outcome (infeasible start, infeasible bounds, or
// solver non-convergence), never a hard failure.
type Result struct {
	Params     model.ParameterSet     `json:"params"`
	Evaluation model.Evaluation       `json:"evaluation"`
	Converged  bool                   `json:"converged"`
	Status     string                 `json:"status"`
	Iterations int                    `json:"iterations"`
	Summaries  []optimization.Summary `json:"summaries"`
}

type variable struct {
	field    string
	min      float64
	max      float64
	original float64
	initial  float64
}

// NewRunner constructs a Runner for the provided parameters and
// optimization spec. The spec must contain at least one validated variable.
func NewRunner(logger *zap.Logger, params model.ParameterSet, spec config.OptimizationConfig) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	spec.Normalize()
	if len(spec.Variables) == 0 {
		return nil, fmt.Errorf("optimization requires at least one variable")
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Runner{logger: logger, params: params, spec: spec}, nil
}

// Run performs the search and returns its result. Errors are reserved for
// invalid inputs; every solver-related failure mode is reported through
// Result.Converged and Result.Status.
func (r *Runner) Run() (*Result, error) {
	vars, err := r.collectVariables()
	if err != nil {
		return nil, err
	}

	initial, err := r.applyValues(vars, initialValues(vars))
	if err != nil {
		return nil, err
	}
	initialEval, err := model.Evaluate(initial)
	if err != nil {
		return nil, err
	}

	tol := r.spec.ConstraintTolerance
	if initialEval.Breakdown.LCOH > initial.SellingPrice+tol {
		status := fmt.Sprintf("initial point infeasible: LCOH %.4f exceeds selling price %.4f",
			initialEval.Breakdown.LCOH, initial.SellingPrice)
		r.logger.Warn("optimizer starting point violates cost constraint",
			zap.String("op", "optimizer.Run"),
			zap.Float64("lcoh", initialEval.Breakdown.LCOH),
			zap.Float64("sellingPrice", initial.SellingPrice),
		)
		return r.buildResult(vars, initialValues(vars), initialEval, false, status, 0)
	}

	// Penalty scale keeps constraint violations dominant over any NPV the
	// search could gain by leaving the feasible region.
	scale := 1e3 * (1 + math.Abs(initialEval.NPV))

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return r.penalizedObjective(vars, x, scale)
		},
	}
	settings := &optimize.Settings{
		MajorIterations: r.spec.MaxIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   r.spec.Tolerance,
			Iterations: convergeWindow,
		},
	}

	solution, solveErr := optimize.Minimize(problem, initialValues(vars), settings, &optimize.NelderMead{})
	if solveErr != nil {
		status := fmt.Sprintf("solver failed: %v", solveErr)
		r.logger.Warn("optimizer solver error",
			zap.String("op", "optimizer.Run"),
			zap.Error(solveErr),
		)
		return r.buildResult(vars, initialValues(vars), initialEval, false, status, 0)
	}

	iterations := solution.Stats.MajorIterations
	values := clampValues(vars, solution.X)
	candidate, err := r.applyValues(vars, values)
	if err != nil {
		return nil, err
	}

	finalEval, evalErr := model.Evaluate(candidate)
	if evalErr != nil {
		// The clamped optimum landed on an invalid parameter combination
		// (e.g. capacityFactor bound of zero); fall back to the start.
		status := fmt.Sprintf("optimum not evaluable: %v", evalErr)
		return r.buildResult(vars, initialValues(vars), initialEval, false, status, iterations)
	}

	feasible := finalEval.Breakdown.LCOH <= candidate.SellingPrice+tol
	converged := solverConverged(solution.Status)

	// Monotonic improvement: never report a worse NPV than the feasible
	// starting point.
	if !feasible || finalEval.NPV < initialEval.NPV {
		if !feasible {
			r.logger.Debug("optimizer optimum infeasible, keeping initial guess",
				zap.String("op", "optimizer.Run"),
				zap.Float64("lcoh", finalEval.Breakdown.LCOH),
				zap.Float64("sellingPrice", candidate.SellingPrice),
			)
		}
		status := "no improvement over initial guess"
		if !feasible {
			status = fmt.Sprintf("optimum infeasible (LCOH %.4f > selling price %.4f), kept initial guess",
				finalEval.Breakdown.LCOH, candidate.SellingPrice)
		}
		return r.buildResult(vars, initialValues(vars), initialEval, converged, status, iterations)
	}

	status := fmt.Sprintf("solver finished: %s", solution.Status)
	if !converged {
		status = fmt.Sprintf("solver stopped without convergence: %s", solution.Status)
	}

	r.logger.Info("optimizer finished",
		zap.String("op", "optimizer.Run"),
		zap.Float64("initialNPV", initialEval.NPV),
		zap.Float64("optimizedNPV", finalEval.NPV),
		zap.Float64("lcoh", finalEval.Breakdown.LCOH),
		zap.Int("iterations", iterations),
		zap.Bool("converged", converged),
	)

	return r.buildResult(vars, values, finalEval, converged, status, iterations)
}

func (r *Runner) collectVariables() ([]variable, error) {
	vars := make([]variable, 0, len(r.spec.Variables))
	for _, directive := range r.spec.Variables {
		original, err := r.params.Field(directive.Field)
		if err != nil {
			return nil, err
		}
		v := variable{
			field:    directive.Field,
			min:      *directive.Min,
			max:      *directive.Max,
			original: original,
			initial:  mathutil.Clamp(original, *directive.Min, *directive.Max),
		}
		vars = append(vars, v)
	}
	return vars, nil
}

func initialValues(vars []variable) []float64 {
	x := make([]float64, len(vars))
	for i, v := range vars {
		x[i] = v.initial
	}
	return x
}

func clampValues(vars []variable, x []float64) []float64 {
	out := make([]float64, len(vars))
	for i, v := range vars {
		out[i] = mathutil.Clamp(x[i], v.min, v.max)
	}
	return out
}

// applyValues substitutes the decision vector into the parameter set.
func (r *Runner) applyValues(vars []variable, x []float64) (model.ParameterSet, error) {
	params := r.params
	var err error
	for i, v := range vars {
		params, err = params.WithField(v.field, x[i])
		if err != nil {
			return params, err
		}
	}
	return params, nil
}

// penalizedObjective is the negative NPV plus quadratic penalties for box
// bound violations and for the LCOH constraint. Candidates that cannot be
// evaluated at all are pushed far away from the simplex.
func (r *Runner) penalizedObjective(vars []variable, x []float64, scale float64) float64 {
	penalty := 0.0
	clamped := make([]float64, len(x))
	for i, v := range vars {
		clamped[i] = mathutil.Clamp(x[i], v.min, v.max)
		if excess := x[i] - clamped[i]; excess != 0 {
			span := v.max - v.min
			if span <= 0 {
				span = 1
			}
			relative := excess / span
			penalty += relative * relative
		}
	}

	candidate, err := r.applyValues(vars, clamped)
	if err != nil {
		return scale * 1e6
	}
	eval, err := model.Evaluate(candidate)
	if err != nil {
		return scale * 1e6
	}

	if violation := eval.Breakdown.LCOH - candidate.SellingPrice; violation > 0 {
		penalty += violation * violation
	}

	return -eval.NPV + scale*penalty
}

func (r *Runner) buildResult(vars []variable, values []float64, eval model.Evaluation, converged bool, status string, iterations int) (*Result, error) {
	summaries := make([]optimization.Summary, 0, len(vars))
	for i, v := range vars {
		summaries = append(summaries, optimization.Summary{
			Field:    v.field,
			Original: v.original,
			Value:    values[i],
			Min:      v.min,
			Max:      v.max,
			AtBound:  values[i] == v.min || values[i] == v.max,
		})
	}

	return &Result{
		Params:     eval.Params,
		Evaluation: eval,
		Converged:  converged,
		Status:     status,
		Iterations: iterations,
		Summaries:  summaries,
	}, nil
}

// solverConverged maps gonum's termination status onto the success flag.
// Hitting an iteration or evaluation budget is reported as non-convergence.
func solverConverged(status optimize.Status) bool {
	switch status {
	case optimize.IterationLimit,
		optimize.FunctionEvaluationLimit,
		optimize.RuntimeLimit,
		optimize.Failure,
		optimize.NotTerminated:
		return false
	default:
		return true
	}
}
