package bingen_test

import (
	"errors"
	"fmt"
	"go/build"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/analysis/analysistest"

	bingeninternal "github.com/sublee/bingen/internal/bingen"
	"github.com/sublee/bingen/internal/bingen/parse"
	"github.com/sublee/bingen/pkg/bingenanalysis"
)

// TestAnalysis tests parsing and building errors using the Go analysis
// protocol. In this test, bingen errors will be reported as analysis errors.
// "// want `REGEXP`" comments in the fixture source files are used to check for
// expected analysis errors. A want comment may follow a directive on the same
// line.
//
// The directory structure of testdata for subtests is as follows:
//
//	testdata/
//	└── analysis/
//	    ├── pkg1/
//	    │   └── *.go // with want comments
//	    └── pkg2/
//	        └── *.go // with want comments
func TestAnalysis(t *testing.T) {
	ents, err := os.ReadDir(filepath.FromSlash("testdata/analysis"))
	require.NoError(t, err)

	t.Setenv("GOFLAGS", "-tags=bingen")

	for _, ent := range ents {
		if !ent.IsDir() {
			continue
		}

		t.Run(ent.Name(), func(t *testing.T) {
			defer func() {
				if t.Failed() {
					t.Logf("\n\tReproduce:\tgo run ./cmd/bingen ./testdata/analysis/%s", ent.Name())
				}
			}()

			analysistest.Run(t, "", bingenanalysis.Analyzer, "./testdata/analysis/"+ent.Name())
		})
	}
}

// TestPrograms generates encoders for programs in the testdata directory and
// runs them.
//
// The directory structure of testdata for subtests is as follows:
//
//	testdata/
//	└── program/
//	    ├── program1/
//	    │   ├── endian.txt --- "little" to change the default byte order
//	    │   ├── main/
//	    │   │   └── main.go
//	    │   └── want/
//	    │       └── program_output.txt
//	    └── program2/
//	        ├── main/
//	        │   └── main.go
//	        └── want/
//	            └── bingen_error.txt
func TestPrograms(t *testing.T) {
	ents, err := os.ReadDir(filepath.FromSlash("testdata/program"))
	require.NoError(t, err)

	var tests []*programTest
	for _, ent := range ents {
		name := ent.Name()
		if !ent.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}

		test, err := newProgramTest(name)
		if err != nil {
			t.Error(err)
			continue
		}
		tests = append(tests, test)
	}

	for _, test := range tests {
		t.Run(test.name, test.Test())
	}
}

// programTest is a test case for a program. It executes bingen for the program
// and runs the program with generated code to check the output.
type programTest struct {
	name   string
	endian parse.Endian
	files  map[string][]byte // relative path -> content
	want   struct {
		ProgramOutput string
		BingenError   string
	}
}

func (test *programTest) ModulePath() string {
	return "example.com/" + strings.ToLower(test.name)
}

func newProgramTest(name string) (*programTest, error) {
	root := filepath.Join(filepath.FromSlash("testdata/program"), name)
	test := programTest{
		name:  name,
		files: make(map[string][]byte),
	}

	endian, err := os.ReadFile(filepath.Join(root, "endian.txt"))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("load test case %s: %v", name, err)
	default:
		if err := parse.EndianAttr(strings.TrimSpace(string(endian))).TrySet(&test.endian); err != nil {
			return nil, fmt.Errorf("load test case %s: %v", name, err)
		}
	}

	programOutput, _ := os.ReadFile(filepath.Join(root, "want", "program_output.txt"))
	bingenError, _ := os.ReadFile(filepath.Join(root, "want", "bingen_error.txt"))
	test.want.ProgramOutput = strings.TrimSpace(string(programOutput))
	test.want.BingenError = strings.TrimSpace(string(bingenError))
	if test.want.ProgramOutput == "" && test.want.BingenError == "" {
		return nil, fmt.Errorf("load test case %s: does not want anything", name)
	}

	if err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".go" || d.Name() == "bingen_gen.go" {
			// bingen_gen.go might exist for debugging purposes.
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		code, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		test.files[rel] = code
		return nil
	}); err != nil {
		return nil, fmt.Errorf("load test case %s: %v", name, err)
	}
	return &test, nil
}

// materialize writes the program and its go.mod into dir.
func (test *programTest) materialize(dir string) error {
	for name, content := range test.files {
		dst := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(dst), 0o777); err != nil {
			return fmt.Errorf("mkdir %s: %w", name, err)
		}
		if err := os.WriteFile(dst, content, 0o666); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	gomod := fmt.Sprintf("module %s\n\ngo 1.25.0\n", test.ModulePath())
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte(gomod), 0o666); err != nil {
		return fmt.Errorf("write go.mod: %w", err)
	}
	return nil
}

// Test returns a test function for the program test. It runs bingen for the
// program and then checks its error or output messages.
func (test *programTest) Test() func(*testing.T) {
	return func(t *testing.T) {
		t.Parallel()

		defer func() {
			if t.Failed() {
				t.Logf("\n\tReproduce:\tcd testdata/program/%s && go run ../../../cmd/bingen ./main", test.name)
			}
		}()

		wd := t.TempDir()
		require.NoError(t, test.materialize(wd), "Materialization failed")

		env := append(os.Environ(), "GOWORK=off", "GOFLAGS=-mod=mod")
		generated, bingenErr := bingeninternal.Main(t.Context(), bingeninternal.Options{
			Dir:    wd,
			Env:    env,
			Output: "bingen_gen.go",
			Endian: test.endian,
		}, []string{"./main"})

		if bingenErr != nil {
			if test.want.BingenError == "" {
				require.NoError(t, bingenErr, "bingen exited with errors unexpectedly")
			}
			have := relPathInString(bingenErr.Error(), wd)
			assert.Equal(t, normalizeWhitespace(test.want.BingenError), normalizeWhitespace(have))
			return
		}
		require.Empty(t, test.want.BingenError, "bingen should have exited with an error")

		for name, content := range generated {
			err := os.WriteFile(filepath.Join(wd, name), content, 0o666)
			require.NoError(t, err, "Failed to write a generated file")
		}

		goCmd := filepath.Join(build.Default.GOROOT, "bin", "go")
		cmd := exec.Command(goCmd, "run", "./main")
		cmd.Dir = wd
		cmd.Env = env
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))

		assert.Equal(t, test.want.ProgramOutput, strings.TrimSpace(string(out)))
	}
}

// relPathInString replaces paths in the given string to their relative paths
// to the new working directory. Positions are formatted relative to the
// working directory of the process.
func relPathInString(s, wd string) string {
	realWD, err := os.Getwd()
	if err != nil {
		return s
	}

	rel, err := filepath.Rel(realWD, wd)
	if err != nil {
		return s
	}

	s = strings.ReplaceAll(s, rel+string(filepath.Separator), "")
	s = strings.ReplaceAll(s, wd+string(filepath.Separator), "")
	return s
}

// normalizeWhitespace normalizes whitespace in the given string for consistent
// comparison regardless of whitespace style.
func normalizeWhitespace(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\t", "    ")
	return s
}
