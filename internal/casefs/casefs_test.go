package casefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMeshFolder(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"Mesh2", true},
		{"mesh_old", true},
		{"1", true},
		{"MeshFolder", true},
		{"results", false},
		{"1_backup", true}, // known false positive, kept on purpose
		{"plots", false},
		{"", false},
		{"m", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, IsMeshFolder(tc.name), "name=%q", tc.name)
	}
}

func TestIsAmbiguousMeshName(t *testing.T) {
	assert.True(t, IsAmbiguousMeshName("1_backup"))
	assert.False(t, IsAmbiguousMeshName("1"))
	assert.False(t, IsAmbiguousMeshName("42"))
	assert.False(t, IsAmbiguousMeshName("Mesh1"))
	assert.False(t, IsAmbiguousMeshName("results"))
}

func TestMeshFolders(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Mesh1", "mesh_old", "3", "plots", "docs"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, name), 0o755))
	}
	// A file matching the naming rule must not be picked up.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Mesh9"), nil, 0o644))

	folders, err := MeshFolders(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "Mesh1", "mesh_old"}, folders)
}

func TestMeshFolders_MissingDir(t *testing.T) {
	_, err := MeshFolders(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestCopyFile_Overwrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.dat")
	dst := filepath.Join(dir, "dst.dat")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("old contents"), 0o644))

	require.NoError(t, CopyFile(src, dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestCopyMatching(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "restart.dat"), []byte("r"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "mesh.su2"), []byte("m"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "notes.txt"), []byte("n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(src, "sub.dat"), 0o755))

	copied, err := CopyMatching(src, dst, func(name string) bool {
		return filepath.Ext(name) == ".dat" || filepath.Ext(name) == ".su2"
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"mesh.su2", "restart.dat"}, copied)
	assert.False(t, FileExists(filepath.Join(dst, "notes.txt")))
}

func TestCopyTree_ReplacesStale(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "a.png"), []byte("a"), 0o644))

	dst := filepath.Join(t.TempDir(), "plots")
	require.NoError(t, os.MkdirAll(dst, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "stale.png"), []byte("s"), 0o644))

	require.NoError(t, CopyTree(src, dst))

	assert.True(t, FileExists(filepath.Join(dst, "nested", "a.png")))
	assert.False(t, FileExists(filepath.Join(dst, "stale.png")))
}

func TestHasResultExt(t *testing.T) {
	assert.True(t, HasResultExt("history.csv"))
	assert.True(t, HasResultExt("flow.VTU"))
	assert.True(t, HasResultExt("Config.cfg"))
	assert.False(t, HasResultExt("notes.txt"))
	assert.False(t, HasResultExt("history"))
}
