package diagnostics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-pixelboard/internal/render"
)

func TestFromRender(t *testing.T) {
	d := FromRender(fmt.Errorf("%w: Fire: index out of range", render.ErrPatternFailed))
	assert.Equal(t, Err, d.Severity)
	assert.Equal(t, CodePatternFailed, d.Code)
	assert.Contains(t, d.Detail, "Fire")

	d = FromRender(errors.New("driver write: broken pipe"))
	assert.Equal(t, Warn, d.Severity)
	assert.Equal(t, CodeDriverWrite, d.Code)
}

func TestRingKeepsNewest(t *testing.T) {
	r := NewRing(3)
	assert.Empty(t, r.Recent())
	for i := 0; i < 5; i++ {
		r.Push(New(Info, fmt.Sprint(i), ""))
	}
	got := r.Recent()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"2", "3", "4"}, []string{got[0].Code, got[1].Code, got[2].Code})
}
