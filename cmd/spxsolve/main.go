// Copyright ©2024 The SPX Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command spxsolve is the batch driver (C13): load an LP file, apply
// settings, run the pivot engine, and report the result. It mirrors
// soplexmain.cpp's flag/report/exit-status shape, re-expressed with
// spf13/cobra: solver settings bind onto the same long-form flag names
// Settings.Load/.Save use, so a --flag=value override and a ".set" file
// entry are the same option by construction.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/simplexgo/spx/basis"
	"github.com/simplexgo/spx/lp"
	"github.com/simplexgo/spx/mpsio"
	"github.com/simplexgo/spx/scale"
	"github.com/simplexgo/spx/settings"
	"github.com/simplexgo/spx/simplex"
	"github.com/simplexgo/spx/spxlog"
	"github.com/simplexgo/spx/start"
)

// Exit codes per spec.md §6: any terminating solver status is a normal
// run (0), a file that can't be read or parsed is a usage/IO error (1),
// and a panic escaping the solve path is the Go analogue of SoPlex's
// "uncaught exception" (2).
const (
	exitOK       = 0
	exitIOError  = 1
	exitInternal = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) (code int) {
	code = exitOK
	cmd := newRootCmd(&code)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		if code == exitOK {
			code = exitIOError
		}
	}
	return code
}

// options bundles every flag newRootCmd registers beyond the solver
// settings table itself (file paths and the -x/-y/-q output toggles
// soplexmain.cpp has no Settings-table equivalent for).
type options struct {
	set Settings

	loadSetPath string
	saveSetPath string

	readBasisFile  bool
	writeBasisFile bool

	printPrimal bool
	printDual   bool
	quality     bool
}

// Settings is an alias so this file reads naturally without a package
// qualifier on every field access below.
type Settings = settings.Settings

func newRootCmd(code *int) *cobra.Command {
	opt := &options{set: settings.Default()}

	cmd := &cobra.Command{
		Use:           "spxsolve [flags] LPfile [Basfile]",
		Short:         "solve a linear program with the revised simplex method",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := solve(opt, cmd, args)
			*code = c
			return err
		},
	}

	opt.set.BindFlags(cmd.Flags())
	cmd.Flags().StringVar(&opt.loadSetPath, "loadset", "", "load a .set settings file before applying other flags")
	cmd.Flags().StringVar(&opt.saveSetPath, "saveset", "", "save the effective settings to a .set file and exit")
	cmd.Flags().BoolVarP(&opt.readBasisFile, "read-basis", "b", false, "read the starting basis from Basfile")
	cmd.Flags().BoolVarP(&opt.writeBasisFile, "write-basis", "w", false, "write the optimal basis to Basfile")
	cmd.Flags().BoolVarP(&opt.printPrimal, "print-primal", "x", false, "print the primal solution vector")
	cmd.Flags().BoolVarP(&opt.printDual, "print-dual", "y", false, "print the dual multipliers")
	cmd.Flags().BoolVarP(&opt.quality, "quality", "q", false, "print solution quality (iterations, objective)")

	return cmd
}

// solve runs the load/solve/report pipeline and returns the process exit
// code directly, recovering a panic into exitInternal the way a caller
// reading spec.md §6 as "2 on solver internal error (uncaught exception)"
// would expect from a Go rewrite.
func solve(opt *options, cmd *cobra.Command, args []string) (code int, err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "spxsolve: internal error:", r)
			code = exitInternal
			err = nil
		}
	}()

	if opt.loadSetPath != "" {
		if err := opt.set.LoadFile(opt.loadSetPath); err != nil {
			return exitIOError, errors.Wrap(err, "spxsolve: loadset")
		}
	}
	if err := opt.set.ApplyFlags(cmd.Flags()); err != nil {
		return exitIOError, errors.Wrap(err, "spxsolve: flags")
	}
	if opt.saveSetPath != "" {
		if err := opt.set.SaveFile(opt.saveSetPath); err != nil {
			return exitIOError, errors.Wrap(err, "spxsolve: saveset")
		}
		return exitOK, nil
	}

	lpPath := args[0]
	var basPath string
	if len(args) > 1 {
		basPath = args[1]
	}
	if (opt.readBasisFile || opt.writeBasisFile) && basPath == "" {
		return exitIOError, errors.New("spxsolve: -b/-w requires a Basfile argument")
	}

	prob, rowNames, colNames, err := loadProblem(lpPath)
	if err != nil {
		return exitIOError, errors.Wrap(err, "spxsolve: read LP")
	}
	if opt.set.ObjSense != prob.Sense {
		prob.Sense = opt.set.ObjSense
	}

	scaled, scaler, err := scale.Scale(prob, opt.set.Scaler)
	if err != nil {
		return exitIOError, errors.Wrap(err, "spxsolve: scale")
	}

	solverOpts := opt.set.ToOptions(spxlog.DefaultConfig())
	if opt.readBasisFile {
		starter, err := loadBasisStarter(basPath, prob, rowNames, colNames)
		if err != nil {
			return exitIOError, errors.Wrap(err, "spxsolve: read basis")
		}
		solverOpts.Starter = starter
	}

	solver := simplex.NewSolver(scaled, solverOpts)
	status := solver.Solve()

	report(cmd, opt, solver, scaler, status)

	if opt.writeBasisFile {
		if err := writeBasisFile(basPath, solver, prob, rowNames, colNames); err != nil {
			return exitIOError, errors.Wrap(err, "spxsolve: write basis")
		}
	}

	return exitOK, nil
}

// loadProblem sniffs lpPath's content and dispatches to the matching
// reader, assigning the row/column name tables mpsio.ReadMPS/ReadLP
// return separately onto the Problem (lp.NewFromTriplets has no opinion
// on names; only the loader that parsed them does).
func loadProblem(path string) (prob *lp.Problem, rowNames, colNames []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	format, replay, err := mpsio.Sniff(f)
	if err != nil {
		return nil, nil, nil, err
	}
	switch format {
	case mpsio.MPS:
		prob, rowNames, colNames, err = mpsio.ReadMPS(replay)
	case mpsio.LPFormat:
		prob, rowNames, colNames, err = mpsio.ReadLP(replay)
	default:
		return nil, nil, nil, errors.Errorf("spxsolve: %s: unrecognized LP file format", path)
	}
	if err != nil {
		return nil, nil, nil, err
	}
	prob.RowNames, prob.ColNames = rowNames, colNames
	return prob, rowNames, colNames, nil
}

// loadBasisStarter reads basPath as a text basis listing against prob's
// own name tables and wraps the resulting descriptor as a start.Starter
// returning it unconditionally, giving simplex.NewSolver a warm start.
func loadBasisStarter(basPath string, prob *lp.Problem, rowNames, colNames []string) (*fixedStarter, error) {
	f, err := os.Open(basPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	desc, err := mpsio.ReadBasis(f, rowNames, colNames, prob.ColLower, prob.ColUpper, prob.RowLower, prob.RowUpper)
	if err != nil {
		return nil, err
	}
	return &fixedStarter{desc: desc}, nil
}

// fixedStarter adapts a basis.Descriptor already built by ReadBasis into
// the start.Starter interface simplex.Options expects, so a warm start
// from file needs no new construction path inside package start.
type fixedStarter struct{ desc *basis.Descriptor }

func (f *fixedStarter) Start(*lp.Problem) *basis.Descriptor { return f.desc }

var _ start.Starter = (*fixedStarter)(nil)

func writeBasisFile(basPath string, solver *simplex.Solver, prob *lp.Problem, rowNames, colNames []string) error {
	f, err := os.Create(basPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return mpsio.WriteBasis(f, solver.Descriptor(), rowNames, colNames, prob.ColLower, prob.ColUpper, prob.NumCols(), prob.NumRows())
}

// report prints status, objective, and whatever the -x/-y/-q flags ask
// for, unscaling the solution and duals back into the original problem's
// units via scaler (the identity Scaler when --scaler=OFF).
func report(cmd *cobra.Command, opt *options, solver *simplex.Solver, scaler *scale.Scaler, status simplex.Status) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "status: %s\n", status)
	fmt.Fprintf(out, "objective: %.15g\n", solver.ObjectiveValue())

	if opt.quality {
		fmt.Fprintf(out, "iterations: %d\n", solver.Iterations())
	}

	if opt.printPrimal {
		n := len(scaler.ColScale)
		x := make([]float64, n)
		for j := 0; j < n; j++ {
			x[j] = solver.Value(j)
		}
		x = scaler.UnscaleX(x)
		for j, v := range x {
			fmt.Fprintf(out, "x%d = %.15g\n", j, v)
		}
	}

	if opt.printDual && status == simplex.Optimal {
		y, err := solver.DualValues()
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "spxsolve: dual values unavailable:", err)
			return
		}
		for i, v := range scaler.UnscaleY(y) {
			fmt.Fprintf(out, "y%d = %.15g\n", i, v)
		}
	}
}
