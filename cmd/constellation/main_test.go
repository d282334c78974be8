package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-constellations/pkg/constellation"
)

const chainYAML = `
username: me
artists:
  - {id: a, name: Alpha, genres: [g1]}
  - {id: b, name: Beta, genres: [g1, g2]}
  - {id: c, name: Gamma, genres: [g2, g3]}
  - {id: d, name: Delta, genres: [g3]}
`

const friendJSON = `[
  {"id": "b", "name": "Beta", "genres": ["g1"]},
  {"id": "x", "name": "Xenon", "genres": ["jazz"]}
]`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := &app{out: &out}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.Execute()
	return out.String(), err
}

func TestResolve(t *testing.T) {
	l, err := constellation.ParseListening([]byte(chainYAML))
	require.NoError(t, err)
	c := buildLoaded(l, constellation.DefaultBuildOptions())

	n, err := c.resolve("c")
	require.NoError(t, err)
	assert.Equal(t, "Gamma", n.Name)

	n, err = c.resolve("gamma")
	require.NoError(t, err)
	assert.Equal(t, "c", n.ID)

	_, err = c.resolve("gam")
	assert.Error(t, err, "prefixes are not exact names")
}

func TestPathCommand(t *testing.T) {
	file := writeFile(t, "chain.yaml", chainYAML)

	out, err := run(t, "path", file, "Alpha", "d")
	require.NoError(t, err)
	assert.Contains(t, out, "3 hops")
	assert.Contains(t, out, "Alpha → Beta → Gamma → Delta")

	out, err = run(t, "--json", "path", file, "a", "b")
	require.NoError(t, err)
	var resp struct {
		Path  []string `json:"path"`
		Found bool     `json:"found"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Found)
	assert.Equal(t, []string{"a", "b"}, resp.Path)

	_, err = run(t, "path", file, "a", "nobody")
	assert.Error(t, err)
}

func TestChallengeCommand(t *testing.T) {
	file := writeFile(t, "chain.yaml", chainYAML)

	out, err := run(t, "--json", "challenge", file, "--min", "3", "--max", "3", "--seed", "9")
	require.NoError(t, err)
	var ch struct {
		OptimalHops int      `json:"optimalHops"`
		OptimalPath []string `json:"optimalPath"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &ch))
	assert.Equal(t, 3, ch.OptimalHops)
	assert.Len(t, ch.OptimalPath, 4)

	_, err = run(t, "challenge", file, "--min", "5", "--max", "6")
	assert.Error(t, err)
}

func TestSearchAndComponents(t *testing.T) {
	file := writeFile(t, "chain.yaml", chainYAML)

	out, err := run(t, "search", file, "del")
	require.NoError(t, err)
	assert.Contains(t, out, "Delta")

	out, err = run(t, "search", file, "zzz")
	require.NoError(t, err)
	assert.Contains(t, out, "no matches")

	out, err = run(t, "components", file)
	require.NoError(t, err)
	assert.Contains(t, out, "[4]")
}

func TestFuseCommand(t *testing.T) {
	mine := writeFile(t, "mine.yaml", chainYAML)
	theirs := writeFile(t, "theirs.json", friendJSON)

	out, err := run(t, "fuse", mine, theirs)
	require.NoError(t, err)
	assert.Contains(t, out, "union: 5 artists")
	assert.Contains(t, out, "both 1")

	out, err = run(t, "fuse", mine, theirs, "--type", "intersection")
	require.NoError(t, err)
	assert.Contains(t, out, "intersection: 1 artists")

	_, err = run(t, "fuse", mine, theirs, "--type", "blend")
	assert.Error(t, err)
}

func TestLayoutCommand(t *testing.T) {
	file := writeFile(t, "chain.yaml", chainYAML)

	out, err := run(t, "layout", file, "--algorithm", "circular", "--seed", "4")
	require.NoError(t, err)
	var view struct {
		Nodes []struct {
			ID string  `json:"id"`
			X  float64 `json:"x"`
		} `json:"nodes"`
	}
	require.NoError(t, json.NewDecoder(strings.NewReader(out)).Decode(&view))
	assert.Len(t, view.Nodes, 4)
}

func TestBuildCommand(t *testing.T) {
	file := writeFile(t, "chain.yaml", chainYAML)

	out, err := run(t, "build", file)
	require.NoError(t, err)
	assert.Contains(t, out, "4 artists, 3 links")
	assert.Contains(t, out, "components:       1")

	_, err = run(t, "build", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
