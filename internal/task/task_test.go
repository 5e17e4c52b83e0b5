package task

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildContainsGoalAndCredentials(t *testing.T) {
	out := Build(Params{
		TargetURL: "https://forum.example.com/board",
		Username:  "alice",
		Password:  "s3cret",
	})

	assert.Contains(t, out, "https://forum.example.com/board")
	assert.Contains(t, out, `"alice"`)
	assert.Contains(t, out, `"s3cret"`)
	assert.Contains(t, out, "last 4 weeks")
	assert.Contains(t, out, "LOGIN STRATEGY")
}

func TestBuildEnvironmentNote(t *testing.T) {
	out := Build(Params{TargetURL: "https://forum.example.com/board/tech"})

	assert.Contains(t, out, "forum.example.com")
	assert.Contains(t, out, "/board/tech")

	// No path, no section constraint.
	out = Build(Params{TargetURL: "https://forum.example.com"})
	assert.NotContains(t, out, "section whose URL starts with")
}

func TestBuildAdviceIsPrepended(t *testing.T) {
	out := Build(Params{
		TargetURL: "https://forum.example.com",
		Advice:    "- Never open new tabs.",
	})

	require.True(t, strings.HasPrefix(out, "SYSTEM POLICY (FOLLOW STRICTLY):"))
	assert.Contains(t, out, "- Never open new tabs.")

	policyIdx := strings.Index(out, "Never open new tabs")
	roleIdx := strings.Index(out, "ROLE:")
	assert.Less(t, policyIdx, roleIdx, "advice must come before the base task")
}

func TestBuildWithoutAdviceHasNoPolicyHeader(t *testing.T) {
	out := Build(Params{TargetURL: "https://forum.example.com"})
	assert.NotContains(t, out, "SYSTEM POLICY")
}

func TestLoadAdvice(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "advice.md")
	require.NoError(t, os.WriteFile(path, []byte("  be careful \n"), 0o644))

	assert.Equal(t, "be careful", LoadAdvice(path))
	assert.Equal(t, "", LoadAdvice(filepath.Join(dir, "missing.md")))
	assert.Equal(t, "", LoadAdvice(""))
	assert.Equal(t, "", LoadAdvice("   "))
}
