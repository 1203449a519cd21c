package post

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"ccxpost/common"
	"ccxpost/frd"
	"ccxpost/state"
)

// blockInfo is one entry of the inspect inventory.
type blockInfo struct {
	Index        int    `yaml:"index"`
	Name         string `yaml:"name"`
	Displacement bool   `yaml:"displacement"`
	Records      int    `yaml:"records"`
	MinNode      int    `yaml:"min_node,omitempty"`
	MaxNode      int    `yaml:"max_node,omitempty"`
	Components   int    `yaml:"components"`
	NodeWidth    int    `yaml:"node_width"`
}

// Inspect lists the result blocks of a job's result file without touching
// anything, mostly to verify which block a step setting would select.
func Inspect(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)

	arg := cmd.Args().Get(0)
	if len(arg) == 0 {
		return errors.New("no analysis job has been specified")
	}

	log := env.Log.Named("inspect")
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many jobs", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	format, err := common.ParseListFmt(cmd.String("format"))
	if err != nil {
		log.Warn("Unknown listing format requested, using text", zap.Error(err))
		format = common.ListFmtText
	}

	j, err := jobFromArg(arg)
	if err != nil {
		return err
	}

	model, err := frd.Parse(j.path(extResult))
	if err != nil {
		return err
	}

	return printInventory(os.Stdout, model.Path, inventory(model), format)
}

// inventory collects per result block information in file order.
func inventory(m *frd.Model) []blockInfo {
	displacement := make(map[*frd.Block]bool)
	for _, b := range m.DisplacementBlocks() {
		displacement[b] = true
	}

	var infos []blockInfo
	for _, b := range m.Blocks {
		if !b.IsResult() {
			continue
		}
		sig := b.Signature()
		bi := blockInfo{
			Index:        len(infos) + 1,
			Name:         b.Name,
			Displacement: displacement[b],
			Records:      len(b.Records()),
			Components:   sig.Components,
			NodeWidth:    sig.NodeWidth,
		}
		for i, r := range b.Records() {
			if i == 0 || r.Node < bi.MinNode {
				bi.MinNode = r.Node
			}
			if r.Node > bi.MaxNode {
				bi.MaxNode = r.Node
			}
		}
		infos = append(infos, bi)
	}
	return infos
}

func printInventory(w io.Writer, path string, infos []blockInfo, format common.ListFmt) error {
	if format == common.ListFmtYaml {
		data, err := yaml.Marshal(infos)
		if err != nil {
			return fmt.Errorf("unable to marshal inventory to yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	}

	if len(infos) == 0 {
		_, err := fmt.Fprintf(w, "%s: no result blocks\n", path)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s: %d result block(s)\n", path, len(infos)); err != nil {
		return err
	}
	for _, bi := range infos {
		name := bi.Name
		if len(name) == 0 {
			name = "(unnamed)"
		}
		if bi.Records == 0 {
			if _, err := fmt.Fprintf(w, "%4d: %-8s empty\n", bi.Index, name); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%4d: %-8s %d records, nodes %d..%d, %d components, node width %d\n",
			bi.Index, name, bi.Records, bi.MinNode, bi.MaxNode, bi.Components, bi.NodeWidth); err != nil {
			return err
		}
	}
	return nil
}
