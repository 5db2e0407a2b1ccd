package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cuemby/drfsim/pkg/config"
	"github.com/cuemby/drfsim/pkg/resource"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newValidateCmd builds a fresh validate command with its own flag set, so
// each case runs independently of the package-level validateCmd and its
// init()-time MarkFlagRequired state.
func newValidateCmd(t *testing.T, configPath string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "validate", RunE: runValidate}
	cmd.Flags().StringP("config", "c", "", "")
	require.NoError(t, cmd.Flags().Set("config", configPath))
	return cmd
}

func writeFixture(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cluster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	path := writeFixture(t, `
dimension: 2
nodes:
  - id: 0
    capacity: [8, 16]
applications:
  - id: 0
    requirements: [1, 8]
    duration: 16
schedule:
  - time: 0
    app_id: 0
    num_tasks: 1
preemption:
  alpha: 1
  beta: 1
  epsilon: 0.001
`)
	cmd := newValidateCmd(t, path)
	assert.NoError(t, runValidate(cmd, nil))
}

// TestValidateRejectsEachFixtureCase covers testable property 13: validate
// must reject every ConfigurationOutOfRange and DimensionMismatch case
// without ever reaching engine.New (validate.go never imports pkg/engine).
func TestValidateRejectsEachFixtureCase(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name: "node dimension mismatch",
			yaml: `
dimension: 2
nodes:
  - id: 0
    capacity: [8]
`,
			wantErr: resource.ErrDimensionMismatch,
		},
		{
			name: "application dimension mismatch",
			yaml: `
dimension: 2
applications:
  - id: 0
    requirements: [1, 2, 3]
    duration: 1
`,
			wantErr: resource.ErrDimensionMismatch,
		},
		{
			name: "negative dimension",
			yaml: `
dimension: -1
`,
			wantErr: config.ErrOutOfRange,
		},
		{
			name: "negative preemption alpha",
			yaml: `
dimension: 1
preemption:
  alpha: -1
`,
			wantErr: config.ErrOutOfRange,
		},
		{
			name: "negative preemption beta",
			yaml: `
dimension: 1
preemption:
  beta: -5
`,
			wantErr: config.ErrOutOfRange,
		},
		{
			name: "negative preemption epsilon",
			yaml: `
dimension: 1
preemption:
  epsilon: -0.001
`,
			wantErr: config.ErrOutOfRange,
		},
		{
			name: "non-positive application duration",
			yaml: `
dimension: 1
applications:
  - id: 0
    requirements: [1]
    duration: 0
`,
			wantErr: config.ErrOutOfRange,
		},
		{
			name: "negative submission time",
			yaml: `
dimension: 1
applications:
  - id: 0
    requirements: [1]
    duration: 1
schedule:
  - time: -1
    app_id: 0
    num_tasks: 1
`,
			wantErr: config.ErrOutOfRange,
		},
		{
			name: "negative submission task count",
			yaml: `
dimension: 1
applications:
  - id: 0
    requirements: [1]
    duration: 1
schedule:
  - time: 0
    app_id: 0
    num_tasks: -1
`,
			wantErr: config.ErrOutOfRange,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFixture(t, tc.yaml)
			cmd := newValidateCmd(t, path)

			err := runValidate(cmd, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestValidateRejectsMissingFile(t *testing.T) {
	cmd := newValidateCmd(t, filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, runValidate(cmd, nil))
}
