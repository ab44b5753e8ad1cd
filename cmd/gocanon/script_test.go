package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-python/gpython/py"
	"github.com/stretchr/testify/require"
)

func TestScripts(t *testing.T) {
	scripts, err := filepath.Glob("testdata/*.py")
	require.NoError(t, err)
	require.NotEmpty(t, scripts)

	for _, pyFile := range scripts {
		t.Run(filepath.Base(pyFile), func(t *testing.T) {
			outFile, err := os.Create(filepath.Join(t.TempDir(), "stdout.txt"))
			require.NoError(t, err)
			defer outFile.Close()

			ctx := py.NewContext(py.DefaultContextOpts())
			sys := ctx.Store().MustGetModule("sys")
			sys.Globals["stdout"] = &py.File{
				File:     outFile,
				FileMode: py.FileWrite,
			}

			_, err = py.RunFile(ctx, pyFile, py.CompileOpts{}, nil)
			if err != nil {
				py.TracebackDump(err)
			}
			ctx.Close()
			<-ctx.Done()
			require.NoError(t, err)
		})
	}
}
