// internal/htmlclean/clean_test.go
package htmlclean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPlainText(t *testing.T) {
	input := `<html><body>
		<h1>Release 42</h1>
		<p>Chat routing is   faster now.</p>
		<script>alert("x")</script>
		<style>p { color: red; }</style>
		<!-- internal note -->
	</body></html>`

	got, err := Clean(input, Options{})
	require.NoError(t, err)

	assert.Equal(t, "Release 42 Chat routing is faster now.", got)
}

func TestCleanDropsScriptAndStyleContent(t *testing.T) {
	got, err := Clean(`<div>visible<script>hidden()</script><style>.x{}</style></div>`, Options{})
	require.NoError(t, err)

	assert.Equal(t, "visible", got)
	assert.NotContains(t, got, "hidden")
}

func TestCleanPreserveStructure(t *testing.T) {
	input := `<p class="note" style="color:red" onclick="x()">Hello <b>world</b></p>`

	got, err := Clean(input, Options{PreserveStructure: true, RemoveAttributes: true})
	require.NoError(t, err)

	assert.Contains(t, got, "<p>Hello <b>world</b></p>")
	assert.NotContains(t, got, "class=")
	assert.NotContains(t, got, "onclick=")
}

func TestCleanPreserveStructureKeepsAttributes(t *testing.T) {
	got, err := Clean(`<p class="note">Hello</p>`, Options{PreserveStructure: true})
	require.NoError(t, err)

	assert.Contains(t, got, `class="note"`)
}

func TestCleanEmptyInput(t *testing.T) {
	got, err := Clean("", Options{})
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestCleanNestedMarkup(t *testing.T) {
	input := `<div><ul><li>First <span>item</span></li><li>Second</li></ul></div>`

	got, err := Clean(input, Options{})
	require.NoError(t, err)

	assert.Equal(t, "First item Second", got)
}
