package filter

import "github.com/s0up4200/myflix/views"

// Filter selects movies from a listing
type Filter interface {
	// Evaluate reports whether item matches
	Evaluate(item views.MovieItem) bool
}

// CompiledFilter is a filter expression ready for evaluation
type CompiledFilter interface {
	Filter

	// Match is Evaluate with the runtime error exposed
	Match(item views.MovieItem) (bool, error)

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions
type Compiler interface {
	Compile(expression string) (CompiledFilter, error)
}

var defaultCompiler = NewExprCompiler(WithCache(64))

// CompileFilter compiles expression with the shared cached compiler
func CompileFilter(expression string) (CompiledFilter, error) {
	return defaultCompiler.Compile(expression)
}

// Apply returns the items that match f, keeping their order
func Apply(f Filter, items []views.MovieItem) []views.MovieItem {
	matched := make([]views.MovieItem, 0, len(items))
	for _, item := range items {
		if f.Evaluate(item) {
			matched = append(matched, item)
		}
	}
	return matched
}
