package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateRoot(t *testing.T) {
	type layout func(t *testing.T, project string)

	withData := func(t *testing.T, project string) {
		require.NoError(t, os.Mkdir(filepath.Join(project, DataDir), 0755))
	}
	withConfig := func(t *testing.T, project string) {
		require.NoError(t, os.WriteFile(filepath.Join(project, ConfigFile), []byte("app: {}\n"), 0644))
	}

	tests := []struct {
		name       string
		setup      []layout
		wantData   bool
		wantConfig bool
	}{
		{"data directory", []layout{withData}, true, false},
		{"config file", []layout{withConfig}, false, true},
		{"both", []layout{withData, withConfig}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project := t.TempDir()
			nested := filepath.Join(project, "notes", "drafts")
			require.NoError(t, os.MkdirAll(nested, 0755))
			for _, setup := range tt.setup {
				setup(t, project)
			}

			for _, start := range []string{project, nested} {
				r, err := LocateRoot(start)
				require.NoError(t, err)
				assert.Equal(t, filepath.Clean(project), filepath.Clean(r.Dir))
				assert.Equal(t, tt.wantData, r.HasData)
				assert.Equal(t, tt.wantConfig, r.HasConfig)
			}
		})
	}
}

func TestLocateRoot_IgnoresMisshapenIndicators(t *testing.T) {
	project := t.TempDir()
	// A plain file named like the data dir and a directory named like the
	// config file do not mark a root.
	require.NoError(t, os.WriteFile(filepath.Join(project, DataDir), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(project, ConfigFile), 0755))

	_, err := LocateRoot(project)
	if err == nil {
		t.Skip("an ancestor of the temp dir carries a simplelog indicator")
	}
	assert.ErrorIs(t, err, ErrRootNotFound)
}

func TestRoot_Paths(t *testing.T) {
	project := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(project, DataDir), 0755))

	r, err := LocateRoot(project)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(r.Dir, ConfigFile), r.ConfigPath())
	assert.Equal(t, filepath.Join(r.Dir, DataDir), r.Resolve(DataDir))
	abs := filepath.Join(t.TempDir(), "elsewhere")
	assert.Equal(t, abs, r.Resolve(abs))
	assert.Empty(t, r.Resolve(""))

	dir, err := FindRoot(project)
	require.NoError(t, err)
	assert.Equal(t, r.Dir, dir)
}
