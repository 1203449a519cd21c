// Package post drives the splicing pipeline: locate the solver files
// belonging to one analysis job, parse them, carry the printed
// displacements onto the expanded nodes of the result file and write the
// patched copy next to the original.
package post

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"ccxpost/dat"
	"ccxpost/expansion"
	"ccxpost/frd"
	"ccxpost/splice"
	"ccxpost/state"
)

// solver file extensions sharing the job base name
const (
	extExpansion = ".12d"
	extTable     = ".dat"
	extResult    = ".frd"
)

// job locates the solver files of one analysis.
type job struct {
	dir  string
	name string
}

// jobFromArg accepts the job base name or the path of any of its three
// files.
func jobFromArg(arg string) (job, error) {
	abs, err := filepath.Abs(arg)
	if err != nil {
		return job{}, err
	}
	switch strings.ToLower(filepath.Ext(abs)) {
	case extExpansion, extTable, extResult:
		abs = strings.TrimSuffix(abs, filepath.Ext(abs))
	}
	return job{dir: filepath.Dir(abs), name: filepath.Base(abs)}, nil
}

func (j job) path(ext string) string {
	return filepath.Join(j.dir, j.name+ext)
}

func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)

	// check arguments before using the environment, with an empty command
	// line initialization was skipped and there is no logger yet
	arg := cmd.Args().Get(0)
	if len(arg) == 0 {
		return errors.New("no analysis job has been specified")
	}

	log := env.Log.Named("post")
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many jobs", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	j, err := jobFromArg(arg)
	if err != nil {
		return err
	}

	log.Info("Processing starting", zap.String("job", filepath.Join(j.dir, j.name)))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, j, log)
}

// process runs the pipeline for a single job independently of the CLI
// framework. The output file is only created after the whole splice has
// succeeded in memory.
func process(ctx context.Context, j job, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	exp, err := expansion.Parse(j.path(extExpansion), log)
	if err != nil {
		return err
	}
	log.Debug("Expansion map loaded",
		zap.Int("elements", len(exp.Elements())), zap.Int("originals", len(exp.Originals())), zap.Int("skipped", exp.Skipped()))

	if err := ctx.Err(); err != nil {
		return err
	}

	tbl, err := dat.Parse(j.path(extTable), log)
	if err != nil {
		return err
	}
	log.Debug("Displacement table loaded", zap.Int("records", len(tbl)))

	if err := ctx.Err(); err != nil {
		return err
	}

	model, err := frd.Parse(j.path(extResult))
	if err != nil {
		return err
	}

	// Save parsed structure for debugging before anything touches it
	if env.Rpt != nil {
		env.Rpt.StoreData("structure_parsed.txt", []byte(model.String()))
	}

	s := splice.New(exp, tbl, splice.DirectCopy{}, log)
	s.Step = env.Step
	s.Source = j.path(extTable)

	rpt, err := s.Apply(model)
	if err != nil {
		return err
	}

	outputName := buildOutputName(j, env)
	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		if err = os.Remove(outputName); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := frd.Write(model, outputName); err != nil {
		return err
	}
	log.Info("Patched result written", zap.String("file", outputName),
		zap.Int("blocks", rpt.Blocks), zap.Int("inserted", rpt.Inserted), zap.Int("replaced", rpt.Replaced))

	if env.Cfg.Post.SummaryStats {
		logSummary(rpt, log)
	}

	// keep everything needed to reproduce the run in the debug report
	if env.Rpt != nil {
		env.Rpt.StoreData("structure_spliced.txt", []byte(model.String()))
		env.Rpt.Store("input"+extExpansion, j.path(extExpansion))
		env.Rpt.Store("input"+extTable, j.path(extTable))
		env.Rpt.Store("input"+extResult, j.path(extResult))
		env.Rpt.Store("result"+extResult, outputName)
	}
	return nil
}

// logSummary reports the displacement magnitudes the splicer wrote, a quick
// sanity check that the offset surfaces actually moved with the shell.
func logSummary(rpt *splice.Report, log *zap.Logger) {
	if len(rpt.Written) == 0 {
		return
	}
	mags := make([]float64, len(rpt.Written))
	for i, w := range rpt.Written {
		mags[i] = floats.Norm(w.Values, 2)
	}
	log.Info("Splice summary",
		zap.Int("nodes", len(rpt.Nodes())),
		zap.Float64("min_magnitude", floats.Min(mags)),
		zap.Float64("max_magnitude", floats.Max(mags)),
		zap.Float64("mean_magnitude", stat.Mean(mags, nil)))
}
