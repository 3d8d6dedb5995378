// golangcilintbingen package provides a plugin for golangci-lint to integrate
// the bingen analyzer. To build a custom golangci-lint binary with this
// plugin, use the following command at this package's directory:
//
//	golangci-lint custom
//
// Now you will have a golangci-lint-bingen binary which reports misplaced or
// invalid bingen directives and fields that cannot be encoded.
package golangcilintbingen

import (
	"github.com/golangci/plugin-module-register/register"
	"golang.org/x/tools/go/analysis"

	"github.com/sublee/bingen/pkg/bingenanalysis"
)

func init() {
	register.Plugin("bingen", New)
}

func New(settings any) (register.LinterPlugin, error) {
	return BingenLinter{}, nil
}

type BingenLinter struct{}

func (BingenLinter) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	return []*analysis.Analyzer{bingenanalysis.Analyzer}, nil
}

// GetLoadMode requires types because bingen resolves the types of fields.
func (BingenLinter) GetLoadMode() string {
	return register.LoadModeTypesInfo
}
