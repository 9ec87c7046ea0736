package filter

import (
	"fmt"
	"maps"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/myflix/views"
)

// exprFilter implements CompiledFilter with the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*ExprCompiler)

// WithCache keeps up to size compiled expressions
func WithCache(size int) ExprCompilerOption {
	return func(c *ExprCompiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithCustomFunctions makes extra helpers callable from expressions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *ExprCompiler) {
		maps.Copy(c.helpers, funcs)
	}
}

// ExprCompiler compiles expr-lang expressions into movie filters
type ExprCompiler struct {
	helpers map[string]any
	cache   *lruCache
}

// NewExprCompiler creates an expr compiler; without WithCache nothing is cached
func NewExprCompiler(opts ...ExprCompilerOption) *ExprCompiler {
	c := &ExprCompiler{helpers: stringHelpers()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles expression into a filter, reusing a cached program when possible
func (c *ExprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty expression"}
	}

	if c.cache != nil {
		if cached, ok := c.cache.get(expression); ok {
			return cached, nil
		}
	}

	env := make(map[string]any, len(c.helpers)+len(movieHelperStubs))
	maps.Copy(env, movieHelperStubs)
	maps.Copy(env, c.helpers)

	program, err := expr.Compile(expression,
		expr.Env(env),
		expr.AllowUndefinedVariables(), // movie fields are bound at run time
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	f := &exprFilter{expression: expression, program: program, helpers: c.helpers}
	if c.cache != nil {
		c.cache.put(expression, f)
	}
	return f, nil
}

// Clear empties the cache
func (c *ExprCompiler) Clear() {
	if c.cache != nil {
		c.cache.clear()
	}
}

// Size returns the number of cached programs
func (c *ExprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.len()
	}
	return 0
}

// Evaluate reports whether item matches; evaluation errors count as no match
func (f *exprFilter) Evaluate(item views.MovieItem) bool {
	ok, err := f.Match(item)
	return err == nil && ok
}

// Match runs the program against item
func (f *exprFilter) Match(item views.MovieItem) (bool, error) {
	result, err := expr.Run(f.program, runtimeEnv(item, f.helpers))
	if err != nil {
		return false, &EvaluationError{Expression: f.expression, MovieTitle: item.Title, Err: err}
	}
	matched, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{
			Expression: f.expression,
			MovieTitle: item.Title,
			Err:        fmt.Errorf("expression returned %T, not bool", result),
		}
	}
	return matched, nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// stringHelpers are case-insensitive variants of the contains, startsWith and
// endsWith operators
func stringHelpers() map[string]any {
	return map[string]any{
		"icontains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"istartsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"iendsWith": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
	}
}

// movieHelperStubs give the per-movie helpers their signatures at compile time
var movieHelperStubs = map[string]any{
	"directedBy": func(string) bool { return false },
	"inGenre":    func(string) bool { return false },
}

func runtimeEnv(item views.MovieItem, helpers map[string]any) map[string]any {
	env := make(map[string]any, len(helpers)+10)
	maps.Copy(env, helpers)

	env["Movie"] = item
	env["ID"] = item.ID
	env["Title"] = item.Title
	env["Description"] = item.Description
	env["Genre"] = item.Genre.Name
	env["Director"] = item.Director.Name
	env["Featured"] = item.Featured
	env["isFavorite"] = item.IsFavorite

	director := strings.ToLower(item.Director.Name)
	env["directedBy"] = func(name string) bool {
		return name != "" && strings.Contains(director, strings.ToLower(name))
	}
	env["inGenre"] = func(name string) bool {
		return strings.EqualFold(item.Genre.Name, name)
	}
	return env
}
