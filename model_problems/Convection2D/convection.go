package Convection2D

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/notargets/convection/FEM2D"
	"github.com/notargets/convection/exporter"
	"github.com/notargets/convection/geometry2D"
	"github.com/notargets/convection/utils"
)

var ErrUnknownOutput = errors.New("unknown output index")

// Output indices
const (
	OutputCompliant = 0 // right hand side, not implemented, always 0
	OutputFlux      = 1 // integral of T over Tflux
	NumOutputs      = 2
)

// ConfigMap is the key value configuration the model reads, *viper.Viper
// satisfies it
type ConfigMap interface {
	GetFloat64(key string) float64
	GetInt(key string) int
	GetBool(key string) bool
	GetString(key string) string
	IsSet(key string) bool
}

// Configuration keys
const (
	// Systems are factorized densely on every Newton iteration: hsize 0.1
	// gives 1444 dofs and a few seconds per solve, the cost grows as dofs^3
	KeyHSize         = "hsize"
	KeyLength        = "length"
	KeyDim           = "dim"
	KeyBeta          = "beta"
	KeyFlux          = "flux"
	KeyExport        = "export"
	KeyOutputDir     = "output-dir"
	KeyMaxIterations = "newton.max-iterations"
	KeyRTol          = "newton.rtol"
	KeyATol          = "newton.atol"
)

// Convection is the Boussinesq cavity model: velocity, pressure and
// temperature driven by a heat flux, evaluated at (Grashof, Prandtl)
type Convection struct {
	vm        ConfigMap
	logger    *slog.Logger
	Desc      *geometry2D.MeshDescription
	Mesh      *geometry2D.TriMesh
	Xh        *FEM2D.CompositeSpace
	M         utils.CSR // L2 mass matrix
	Dmu       ParameterSpace
	Timers    map[string]time.Duration
	solver    NonlinearSolver
	linear    utils.LinearSolver
	exporter  exporter.Exporter
	essential []bool
	fluxEdges []geometry2D.Edge
	beta      float64
	flux      float64
	currentMu Parameter
	pT        *Element
}

type Option func(c *Convection)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Convection) { c.logger = logger }
}

func WithSolver(s NonlinearSolver) Option {
	return func(c *Convection) { c.solver = s }
}

func WithLinearSolver(s utils.LinearSolver) Option {
	return func(c *Convection) { c.linear = s }
}

func WithExporter(e exporter.Exporter) Option {
	return func(c *Convection) { c.exporter = e }
}

func WithParameterSpace(ps ParameterSpace) Option {
	return func(c *Convection) { c.Dmu = ps }
}

// New builds the mesh, the spaces and the solvers once, every later solve
// reuses them
func New(vm ConfigMap, opts ...Option) (c *Convection, err error) {
	c = &Convection{
		vm:     vm,
		logger: slog.New(slog.DiscardHandler),
		Dmu:    NewParameterSpace(),
		Timers: make(map[string]time.Duration),
		linear: utils.DenseLU{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if err = c.init(); err != nil {
		return nil, err
	}
	return
}

func (c *Convection) getFloat(key string, def float64) float64 {
	if c.vm == nil || !c.vm.IsSet(key) {
		return def
	}
	return c.vm.GetFloat64(key)
}

func (c *Convection) getInt(key string, def int) int {
	if c.vm == nil || !c.vm.IsSet(key) {
		return def
	}
	return c.vm.GetInt(key)
}

func (c *Convection) getString(key string, def string) string {
	if c.vm == nil || !c.vm.IsSet(key) {
		return def
	}
	return c.vm.GetString(key)
}

func (c *Convection) getBool(key string) bool {
	return c.vm != nil && c.vm.IsSet(key) && c.vm.GetBool(key)
}

func (c *Convection) init() (err error) {
	start := time.Now()
	if c.Desc, err = c.CreateMesh(); err != nil {
		return
	}
	if c.Mesh, err = geometry2D.NewCavityMesh(c.Desc); err != nil {
		return
	}
	c.Timers["mesh"] = time.Since(start)
	c.logger.Info("[timer] createMesh()", "elapsed", c.Timers["mesh"],
		"elements", len(c.Mesh.Tris), "nodes", len(c.Mesh.Points))

	c.Xh = FEM2D.NewCompositeSpace(c.Mesh)
	if c.essential, err = essentialDofs(c.Xh); err != nil {
		return
	}
	if c.fluxEdges, err = c.Mesh.MarkedEdges(geometry2D.Tflux); err != nil {
		return
	}
	c.M = c.Xh.MassMatrix()
	c.beta = c.getFloat(KeyBeta, 1)
	c.flux = c.getFloat(KeyFlux, 1)
	c.pT = c.NewElement()
	if c.solver == nil {
		ns := NewNewtonSolver()
		ns.MaxIterations = c.getInt(KeyMaxIterations, ns.MaxIterations)
		ns.RTol = c.getFloat(KeyRTol, ns.RTol)
		ns.ATol = c.getFloat(KeyATol, ns.ATol)
		ns.Linear = c.linear
		ns.Logger = c.logger
		c.solver = ns
	}
	if c.exporter == nil {
		c.exporter = exporter.NewVTU(c.getString(KeyOutputDir, "."), "convection", c.getBool(KeyExport))
	}
	c.Timers["init"] = time.Since(start)
	c.logger.Info("model initialized", "dofs", c.Xh.NDof, "elapsed", c.Timers["init"])
	return
}

// CreateMesh returns the cavity description from hsize, length and dim
func (c *Convection) CreateMesh() (*geometry2D.MeshDescription, error) {
	return geometry2D.CreateMesh(c.getFloat(KeyHSize, 0.1), c.getFloat(KeyLength, 1), c.getInt(KeyDim, 2))
}

func (c *Convection) NDof() int { return c.Xh.NDof }

// CurrentParameter is the parameter of the last continuation step solved
func (c *Convection) CurrentParameter() Parameter { return c.currentMu }

// Solve returns a fresh solution at mu
func (c *Convection) Solve(mu Parameter) (T *Element, err error) {
	T = c.NewElement()
	if err = c.SolveAt(mu, T); err != nil {
		return nil, err
	}
	return
}

// SolveAt walks the continuation schedule to mu, each step starting from
// the solution of the previous one held in T
func (c *Convection) SolveAt(mu Parameter, T *Element) (err error) {
	if err = mu.Validate(); err != nil {
		return
	}
	if T == nil || T.Space != c.Xh {
		return fmt.Errorf("solution does not belong to this model's space")
	}
	start := time.Now()
	defer func() { c.Timers["solve"] += time.Since(start) }()
	steps := ContinuationSchedule(mu)
	for _, step := range steps {
		c.logger.Info("continuation", "i/N", fmt.Sprintf("%d/%d", step.Index, len(steps)),
			"intermediary Grashof", step.Mu.Grashof, "Prandtl", step.Mu.Prandtl)
		c.currentMu = step.Mu
		var rep NewtonReport
		if rep, err = c.solver.Solve(c, step.Mu, T.Data); err != nil {
			return fmt.Errorf("continuation step %d/%d at %v: %w", step.Index, len(steps), step.Mu, err)
		}
		c.logger.Debug("continuation step converged", "i", step.Index,
			"iterations", rep.Iterations, "residual", rep.Residual)
		c.applyEssential(T)
		if err = c.normalizePressure(T); err != nil {
			return
		}
		if c.exporter.DoExport() {
			if err = c.ExportResults(T, float64(step.Index)); err != nil {
				return
			}
		}
	}
	return
}

// applyEssential sets the constrained dofs to their prescribed zero, the
// Newton update only reaches them up to the round off of the linear solve
func (c *Convection) applyEssential(T *Element) {
	for d, isEss := range c.essential {
		if isEss {
			T.Data[d] = 0
		}
	}
}

// normalizePressure shifts p to zero mean
func (c *Convection) normalizePressure(T *Element) (err error) {
	var (
		p        = T.P()
		integral float64
	)
	if integral, err = c.Xh.IntegrateP1(p); err != nil {
		return
	}
	mean := integral / c.Mesh.Measure()
	for i := range p {
		p[i] -= mean
	}
	return
}

// Output solves at mu and evaluates output index: 0 is the compliant output,
// 1 the integral of the temperature over Tflux
func (c *Convection) Output(index int, mu Parameter) (output float64, err error) {
	if index < 0 || index >= NumOutputs {
		err = fmt.Errorf("%w: %d", ErrUnknownOutput, index)
		return
	}
	start := time.Now()
	defer func() { c.Timers["output"] += time.Since(start) }()
	// Start from rest so that repeated evaluations do not depend on history
	c.pT.Zero()
	if err = c.SolveAt(mu, c.pT); err != nil {
		return
	}
	switch index {
	case OutputCompliant:
		output = 0
	case OutputFlux:
		if output, err = c.FluxOutput(c.pT); err != nil {
			return
		}
		var integral float64
		if integral, err = c.Xh.IntegrateDomain(c.pT.T()); err != nil {
			return
		}
		average := integral / c.Mesh.Measure()
		c.logger.Info("output", "mu", mu.String(), "flux", output,
			"IntegralTdomain", integral, "AverageTdomain", average)
	}
	return
}

// FluxOutput integrates the temperature of U over Tflux
func (c *Convection) FluxOutput(U *Element) (float64, error) {
	return c.Xh.IntegrateMarkedFaces(geometry2D.Tflux, U.T())
}

// AverageTemperature is the domain mean of the temperature of U
func (c *Convection) AverageTemperature(U *Element) (average float64, err error) {
	if average, err = c.Xh.IntegrateDomain(U.T()); err != nil {
		return
	}
	average /= c.Mesh.Measure()
	return
}

// ExportResults writes u, p and T of U at step t
func (c *Convection) ExportResults(U *Element, t float64) (err error) {
	step := c.exporter.Step(t)
	step.SetMesh(c.Mesh)
	step.AddVector("u", clone(U.Ux()), clone(U.Uy()))
	step.AddScalar("p", c.Xh.P1ToP2(U.P()))
	step.AddScalar("T", clone(U.T()))
	if err = c.exporter.Save(); err != nil {
		err = fmt.Errorf("export step %g: %w", t, err)
	}
	return
}

// Run is the raw array entry point for external samplers. It does not
// evaluate anything, use Output.
func (c *Convection) Run(X, Y []float64) {
	c.logger.Info("Convection::run(X, N, Y, P)", "N", len(X), "P", len(Y))
}

// ScalarProduct is the L2 inner product of the composite space
func (c *Convection) ScalarProduct(x, y []float64) float64 {
	return c.M.Energy(x, y)
}

// L2Solve returns the L2 projection u of f, M u = f
func (c *Convection) L2Solve(f []float64) (u []float64, err error) {
	return c.linear.Solve(c.M, f)
}

// SolveSystem solves D u = F with the model's linear backend
func (c *Convection) SolveSystem(D utils.CSR, F []float64) (u []float64, err error) {
	return c.linear.Solve(D, F)
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}
