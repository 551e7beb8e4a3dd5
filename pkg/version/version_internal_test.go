package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyBuildInfo(t *testing.T) {
	Version, Commit, Date = "dev", unknown, unknown

	t.Cleanup(func() { Version, Commit, Date = "dev", unknown, unknown })

	applyBuildInfo(&debug.BuildInfo{
		Main: debug.Module{Version: "v1.2.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-10-01T00:00:00Z"},
		},
	})

	assert.Equal(t, "sizediff v1.2.0 (commit: abc123, built: 2026-10-01T00:00:00Z)", String())
}

func TestApplyBuildInfo_KeepsLinkerValues(t *testing.T) {
	Version, Commit, Date = "v2.0.0", "fixed", unknown

	t.Cleanup(func() { Version, Commit, Date = "dev", unknown, unknown })

	applyBuildInfo(&debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
	})

	assert.Equal(t, "v2.0.0", Version)
	assert.Equal(t, "fixed", Commit)
}
