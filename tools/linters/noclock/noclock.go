// Package noclock provides a linter that keeps the wall clock out of pure packages.
//
// Date arithmetic, classification and report building take "now" as an
// argument so they stay deterministic under test. Only the application layer
// and the CLI may read the clock.
package noclock

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// Analyzer reports uses of time.Now, time.Since and time.Until in pure packages.
var Analyzer = &analysis.Analyzer{
	Name: "noclock",
	Doc:  "forbids reading the wall clock (time.Now, time.Since, time.Until) in pure packages",
	Run:  run,
}

// pure lists the last path elements of packages that must not read the clock.
var pure = "domain,recurring,status,report"

func init() {
	Analyzer.Flags.StringVar(&pure, "pure", pure, "comma-separated package names that must not read the clock")
}

var clockFuncs = map[string]bool{
	"Now":   true,
	"Since": true,
	"Until": true,
}

func run(pass *analysis.Pass) (any, error) {
	if !isPure(pass.Pkg.Path()) {
		return nil, nil
	}

	for _, file := range pass.Files {
		if strings.HasSuffix(pass.Fset.Position(file.Pos()).Filename, "_test.go") {
			continue
		}
		ast.Inspect(file, func(n ast.Node) bool {
			sel, ok := n.(*ast.SelectorExpr)
			if !ok {
				return true
			}

			name, ok := clockFunc(pass, sel)
			if !ok {
				return true
			}

			if hasNolintComment(file, pass, sel) {
				return true
			}

			pass.Reportf(sel.Pos(), "time.%s reads the wall clock; take the current time as a parameter", name)
			return true
		})
	}

	return nil, nil
}

// isPure reports whether the package path ends in one of the pure names.
func isPure(path string) bool {
	last := path[strings.LastIndex(path, "/")+1:]
	for name := range strings.SplitSeq(pure, ",") {
		if strings.TrimSpace(name) == last {
			return true
		}
	}
	return false
}

// clockFunc resolves sel to a clock-reading function in package time.
// It follows the type checker, so renamed imports are caught as well.
func clockFunc(pass *analysis.Pass, sel *ast.SelectorExpr) (string, bool) {
	fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil || fn.Pkg().Path() != "time" {
		return "", false
	}
	// Methods such as Time.Sub share the package but have receivers.
	if sig, ok := fn.Type().(*types.Signature); !ok || sig.Recv() != nil {
		return "", false
	}
	if !clockFuncs[fn.Name()] {
		return "", false
	}
	return fn.Name(), true
}

// hasNolintComment checks for //nolint or //nolint:noclock on the same line or the line before.
func hasNolintComment(file *ast.File, pass *analysis.Pass, node ast.Node) bool {
	line := pass.Fset.Position(node.Pos()).Line

	for _, cg := range file.Comments {
		for _, comment := range cg.List {
			commentLine := pass.Fset.Position(comment.Pos()).Line
			if commentLine != line && commentLine != line-1 {
				continue
			}
			text := comment.Text
			if !strings.Contains(text, "nolint") {
				continue
			}
			if !strings.Contains(text, "nolint:") || strings.Contains(text, "noclock") {
				return true
			}
		}
	}

	return false
}
