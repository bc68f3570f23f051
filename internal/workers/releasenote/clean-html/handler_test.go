// internal/workers/releasenote/clean-html/handler_test.go
package cleanhtml

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "release-note-workers/internal/common/errors"
	"release-note-workers/internal/common/logger"
)

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second}, logger.NewTestLogger(t))
}

func TestExecutePlainText(t *testing.T) {
	h := newTestHandler(t)

	output, err := h.Execute(context.Background(), &Input{
		HTML: `<p>Routing is <b>faster</b> now.</p><script>x()</script>`,
	})
	require.NoError(t, err)

	assert.Equal(t, "Routing is faster now.", output.CleanedText)
	assert.Equal(t, len(output.CleanedText), output.CleanedLength)
	assert.Greater(t, output.OriginalLength, output.CleanedLength)
}

func TestExecutePreserveStructure(t *testing.T) {
	h := newTestHandler(t)

	output, err := h.Execute(context.Background(), &Input{
		HTML:              `<p class="note">Hello</p>`,
		PreserveStructure: true,
	})
	require.NoError(t, err)

	assert.Contains(t, output.CleanedText, "<p>Hello</p>")
	assert.NotContains(t, output.CleanedText, "class=")
}

func TestExecuteKeepAttributes(t *testing.T) {
	h := newTestHandler(t)

	keep := false
	output, err := h.Execute(context.Background(), &Input{
		HTML:              `<p class="note">Hello</p>`,
		PreserveStructure: true,
		RemoveAttributes:  &keep,
	})
	require.NoError(t, err)

	assert.Contains(t, output.CleanedText, `class="note"`)
}

func TestExecuteEmptyHTML(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{})

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeValidationFailed, stdErr.Code)
}
