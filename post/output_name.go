package post

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"go.uber.org/zap"

	"ccxpost/config"
	"ccxpost/state"
)

// Values holds the variables available for output name template expansion.
type Values struct {
	Context string
	Base    string
	Dir     string
	Step    int
}

const defaultSuffix = "-post"

// buildOutputName expands the configured output name template for the job.
// When no template is set or expansion fails the default suffix scheme is
// used. The result always lands in the job directory with the result file
// extension.
func buildOutputName(j job, env *state.LocalEnv) string {
	name := j.name + defaultSuffix
	if field := env.Cfg.Post.OutputNameTemplate; len(field) > 0 {
		expanded, err := expandTemplate(config.OutputNameTemplateFieldName, field, j, env.Step)
		if err != nil {
			env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		} else if len(expanded) > 0 {
			name = expanded
		}
	}
	return filepath.Join(j.dir, config.CleanFileName(name)+extResult)
}

func expandTemplate(name config.TemplateFieldName, field string, j job, step int) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context: string(name),
		Base:    j.name,
		Dir:     j.dir,
		Step:    step,
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
