package lang

import (
	"testing"

	"github.com/dshills/codemap/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPython_ClassWithMethod(t *testing.T) {
	src := `class Greeter:
    def hello(self):
        return "hi"
`
	res := NewPython().Parse(src)
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Symbols, 1)

	cls := res.Symbols[0]
	assert.Equal(t, "Greeter", cls.Name)
	assert.Equal(t, types.KindClass, cls.Kind)
	assert.Equal(t, [2]int{1, 3}, cls.Lines)

	require.Len(t, cls.Children, 1)
	m := cls.Children[0]
	assert.Equal(t, "hello", m.Name)
	assert.Equal(t, types.KindMethod, m.Kind)
	assert.GreaterOrEqual(t, m.Start(), cls.Start())
	assert.LessOrEqual(t, m.End(), cls.End())
}

func TestPython_FunctionEndsBeforeNextTopLevel(t *testing.T) {
	src := `def a():
    pass


def b():
    pass
`
	res := NewPython().Parse(src)
	require.Len(t, res.Symbols, 2)
	assert.Equal(t, [2]int{1, 2}, res.Symbols[0].Lines)
	assert.Equal(t, [2]int{5, 6}, res.Symbols[1].Lines)
}

func TestPython_DecoratorsExtendStart(t *testing.T) {
	src := `@retry
@cache(ttl=60)
def fetch():
    pass
`
	res := NewPython().Parse(src)
	require.Len(t, res.Symbols, 1)
	assert.Equal(t, "fetch", res.Symbols[0].Name)
	assert.Equal(t, 1, res.Symbols[0].Start())
}

func TestPython_MultilineDecorator(t *testing.T) {
	src := `@app.route(
    "/users",
    methods=["GET"],
)
def list_users():
    pass
`
	res := NewPython().Parse(src)
	require.Len(t, res.Symbols, 1)
	assert.Equal(t, "list_users", res.Symbols[0].Name)
	assert.Equal(t, 1, res.Symbols[0].Start())
}

func TestPython_AsyncKinds(t *testing.T) {
	src := `async def poll():
    pass

class Client:
    async def get(self):
        pass
`
	res := NewPython().Parse(src)
	require.Len(t, res.Symbols, 2)
	assert.Equal(t, types.KindAsyncFunction, res.Symbols[0].Kind)

	cls := res.Symbols[1]
	require.Len(t, cls.Children, 1)
	assert.Equal(t, types.KindAsyncMethod, cls.Children[0].Kind)
}

func TestPython_NestedFunction(t *testing.T) {
	src := `def outer():
    def inner():
        pass
`
	res := NewPython().Parse(src)
	require.Len(t, res.Symbols, 1)
	outer := res.Symbols[0]
	assert.Equal(t, types.KindFunction, outer.Kind)
	require.Len(t, outer.Children, 1)
	// Nested inside a function, not a class: still a plain function.
	assert.Equal(t, "inner", outer.Children[0].Name)
	assert.Equal(t, types.KindFunction, outer.Children[0].Kind)
}

func TestPython_Docstring(t *testing.T) {
	src := `def greet(name):
    """Say hello to name."""
    return name
`
	res := NewPython().Parse(src)
	require.Len(t, res.Symbols, 1)
	assert.Equal(t, "Say hello to name.", res.Symbols[0].Docstring)
}

func TestPython_MultilineSignature(t *testing.T) {
	src := `def configure(
    host,
    port,
):
    return host
`
	res := NewPython().Parse(src)
	require.Len(t, res.Symbols, 1)
	sym := res.Symbols[0]
	assert.Equal(t, "configure", sym.Name)
	assert.Contains(t, sym.Signature, "host")
	assert.Contains(t, sym.Signature, "port")
	assert.Equal(t, 1, sym.Start())
	assert.Equal(t, 5, sym.End())
}

func TestPython_TripleQuotedStringIsOpaque(t *testing.T) {
	src := `DOC = """
def not_a_function():
    pass
"""
def real():
    pass
`
	res := NewPython().Parse(src)
	require.Len(t, res.Symbols, 1)
	assert.Equal(t, "real", res.Symbols[0].Name)
}

func TestPython_MalformedDefDiagnostic(t *testing.T) {
	src := `def (:
`
	res := NewPython().Parse(src)
	assert.Empty(t, res.Symbols)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, types.DiagParseError, res.Diagnostics[0].Kind)
	assert.Equal(t, 1, res.Diagnostics[0].Line)
}

func TestPython_EmptySource(t *testing.T) {
	res := NewPython().Parse("")
	assert.Empty(t, res.Symbols)
	assert.Empty(t, res.Diagnostics)
}

func TestPython_NoTrailingNewline(t *testing.T) {
	res := NewPython().Parse("def tail():\n    pass")
	require.Len(t, res.Symbols, 1)
	assert.Equal(t, [2]int{1, 2}, res.Symbols[0].Lines)
}
