package post

import (
	"path/filepath"
	"testing"
)

func TestBuildOutputName(t *testing.T) {
	_, env := setupTestEnv(t)

	j := job{dir: t.TempDir(), name: "beam"}

	tests := []struct {
		name     string
		template string
		step     int
		want     string
	}{
		{"default template", "{{ .Base }}-post", 0, "beam-post.frd"},
		{"no template falls back", "", 0, "beam-post.frd"},
		{"step variable", "{{ .Base }}_step{{ .Step }}", 2, "beam_step2.frd"},
		{"sprig function", "{{ .Base | upper }}", 0, "BEAM.frd"},
		{"separators are stripped", "out/{{ .Base }}", 0, "outbeam.frd"},
		{"parse error falls back", "{{ .Base", 0, "beam-post.frd"},
		{"unknown variable falls back", "{{ .Title }}", 0, "beam-post.frd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.Cfg.Post.OutputNameTemplate = tt.template
			env.Step = tt.step

			got := buildOutputName(j, env)
			if got != filepath.Join(j.dir, tt.want) {
				t.Errorf("buildOutputName() = %q, want %q", got, filepath.Join(j.dir, tt.want))
			}
		})
	}
}

func TestBuildOutputName_AlwaysInJobDir(t *testing.T) {
	_, env := setupTestEnv(t)

	j := job{dir: t.TempDir(), name: "beam"}
	env.Cfg.Post.OutputNameTemplate = "../../escape"

	got := buildOutputName(j, env)
	if filepath.Dir(got) != j.dir {
		t.Errorf("buildOutputName() = %q, expected output to stay in %q", got, j.dir)
	}
}
