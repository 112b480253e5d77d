package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	assert.Contains(t, out.String(), "ragent")
	assert.Contains(t, out.String(), AppVersion)
}

func TestRootCommandRegistrations(t *testing.T) {
	t.Parallel()

	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	require.True(t, names["ask"])
	require.True(t, names["index"])
	require.True(t, names["version"])
}

func TestAskRequiresArgs(t *testing.T) {
	t.Parallel()

	err := askCmd.Args(askCmd, []string{})
	assert.Error(t, err)
	assert.NoError(t, askCmd.Args(askCmd, []string{"why"}))
}
