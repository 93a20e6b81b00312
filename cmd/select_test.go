package cmd

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/huangsam/locmeta/core"
)

func TestSelectHelpMatchesLayout(t *testing.T) {
	top := core.DefaultMargin.Top
	bottom := core.CanvasHeight - core.DefaultMargin.Bottom

	assert.Contains(t, selectCmd.Long, fmt.Sprintf("y=%g is 24:00", top))
	assert.Contains(t, selectCmd.Long, fmt.Sprintf("y=%g is 00:00", bottom))
	assert.NotContains(t, selectCmd.Long, "towards midnight")
}
