package profile

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T, format, configString string) *Config {
	t.Helper()
	config, err := Load(bytes.NewBufferString(configString), format)
	require.NoError(t, err)
	return config
}

func getTestProfile(t *testing.T, format, configString, name string) (*Profile, error) {
	t.Helper()
	config, err := Load(bytes.NewBufferString(configString), format)
	if err != nil {
		return nil, err
	}
	return config.GetProfile(name)
}

func TestProfileNotFound(t *testing.T) {
	profile, err := getTestProfile(t, "toml", "[profile]\n", "other")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, profile)
}

func TestEmptyProfile(t *testing.T) {
	profile, err := getTestProfile(t, "toml", "[profile]\n", "profile")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "profile", profile.Name)
	assert.False(t, profile.Initialize)
}

func TestInitializeValue(t *testing.T) {
	profile, err := getTestProfile(t, "toml", `[profile]
initialize = true
`, "profile")
	require.NoError(t, err)
	assert.True(t, profile.Initialize)
}

func TestInheritedValue(t *testing.T) {
	profile, err := getTestProfile(t, "toml", `[parent]
initialize = true

[profile]
inherit = "parent"
`, "profile")
	require.NoError(t, err)
	assert.True(t, profile.Initialize)
	assert.Equal(t, "profile", profile.Name)
}

func TestOverriddenInheritedValue(t *testing.T) {
	profile, err := getTestProfile(t, "toml", `[parent]
initialize = true

[profile]
initialize = false
inherit = "parent"
`, "profile")
	require.NoError(t, err)
	assert.False(t, profile.Initialize)
}

func TestUnknownParent(t *testing.T) {
	_, err := getTestProfile(t, "toml", `[profile]
inherit = "parent"
`, "profile")
	assert.ErrorContains(t, err, `parent profile "parent" was not found`)
}

func TestInheritanceLoop(t *testing.T) {
	_, err := getTestProfile(t, "toml", `[first]
inherit = "second"

[second]
inherit = "first"
`, "first")
	assert.ErrorContains(t, err, "inheritance loop")
}

func TestMultiInheritance(t *testing.T) {
	testConfig := `
[grand-parent]
repository = "grand-parent"
first-value = 1
override-value = 1

[parent]
inherit = "grand-parent"
initialize = true
repository = "parent"
second-value = 2
override-value = 2
quiet = true

[profile]
inherit = "parent"
third-value = 3
verbose = true
quiet = false
`
	profile, err := getTestProfile(t, "toml", testConfig, "profile")
	require.NoError(t, err)
	assert.Equal(t, "profile", profile.Name)
	assert.Equal(t, "parent", profile.Repository)
	assert.True(t, profile.Initialize)
	assert.Equal(t, int64(1), profile.OtherFlags["first-value"])
	assert.Equal(t, int64(2), profile.OtherFlags["second-value"])
	assert.Equal(t, int64(3), profile.OtherFlags["third-value"])
	assert.Equal(t, int64(2), profile.OtherFlags["override-value"])
	assert.False(t, profile.Quiet)
	assert.True(t, profile.Verbose)
}

func TestInheritedEnvironment(t *testing.T) {
	profile, err := getTestProfile(t, "toml", `[parent.env]
restic_password = "parent"
restic_cache = "/cache"

[profile]
inherit = "parent"
[profile.env]
restic_password = "child"
`, "profile")
	require.NoError(t, err)
	assert.Equal(t, []string{"RESTIC_CACHE=/cache", "RESTIC_PASSWORD=child"}, profile.GetEnvironment())
}

func TestCommonFlags(t *testing.T) {
	profile, err := getTestProfile(t, "toml", `[profile]
quiet = true
verbose = false
repository = "test"
`, "profile")
	require.NoError(t, err)

	flags := profile.GetCommonFlags().ToMap()
	assert.Contains(t, flags, "quiet")
	assert.NotContains(t, flags, "verbose")
	assert.Contains(t, flags, "repo")
	assert.Equal(t, []string{"test"}, flags["repo"])
}

func TestOtherFlagConversion(t *testing.T) {
	profile, err := getTestProfile(t, "toml", `[profile]
bool-true = true
bool-false = false
string = "test"
zero = 0
empty = ""
float = 4.2
int = 42
array0 = []
array1 = [1]
array2 = ["one", "two"]
`, "profile")
	require.NoError(t, err)

	flags := profile.GetCommonFlags().ToMap()
	assert.Contains(t, flags, "bool-true")
	assert.NotContains(t, flags, "bool-false")
	assert.NotContains(t, flags, "zero")
	assert.NotContains(t, flags, "empty")
	assert.NotContains(t, flags, "array0")
	assert.Equal(t, []string{}, flags["bool-true"])
	assert.Equal(t, []string{"test"}, flags["string"])
	assert.Equal(t, []string{"4.2"}, flags["float"])
	assert.Equal(t, []string{"42"}, flags["int"])
	assert.Equal(t, []string{"1"}, flags["array1"])
	assert.Equal(t, []string{"one", "two"}, flags["array2"])
}

func TestCommandFlagsOverrideCommonFlags(t *testing.T) {
	profile, err := getTestProfile(t, "toml", `[profile]
repository = "test"
tag = "common"

[profile.snapshots]
tag = "snapshots"
`, "profile")
	require.NoError(t, err)

	common := profile.GetCommonFlags().ToMap()
	assert.Equal(t, []string{"common"}, common["tag"])
	// the snapshots section is not a flag
	assert.NotContains(t, common, "snapshots")

	flags := profile.GetCommandFlags("snapshots").ToMap()
	assert.Equal(t, []string{"snapshots"}, flags["tag"])
	assert.Equal(t, []string{"test"}, flags["repo"])
}

func TestBackupCommandFlags(t *testing.T) {
	profile, err := getTestProfile(t, "toml", `[profile]
repository = "test"

[profile.backup]
source = ["/home", "/etc"]
exclude = "*.tmp"
one-file-system = true
`, "profile")
	require.NoError(t, err)

	flags := profile.GetCommandFlags("backup").ToMap()
	assert.Equal(t, []string{"*.tmp"}, flags["exclude"])
	assert.Contains(t, flags, "one-file-system")
	assert.Equal(t, []string{"/home", "/etc"}, profile.GetBackupSource())
}

func TestHostInProfile(t *testing.T) {
	profile, err := getTestProfile(t, "toml", `[profile.backup]
host = true
[profile.snapshots]
host = "ConfigHost"
`, "profile")
	require.NoError(t, err)
	profile.SetHost("TestHost")

	flags := profile.GetCommandFlags("backup").ToMap()
	assert.Equal(t, []string{"TestHost"}, flags["host"])

	flags = profile.GetCommandFlags("snapshots").ToMap()
	assert.Equal(t, []string{"ConfigHost"}, flags["host"])
}

func TestSetRootPath(t *testing.T) {
	profile, err := getTestProfile(t, "toml", `[profile]
password-file = "key"
lock = "lock"
status-file = "status"
[profile.backup]
source = ["backup", "root"]
exclude-file = "exclude"
files-from = "include"
exclude = "exclude"
`, "profile")
	require.NoError(t, err)

	profile.SetRootPath(filepath.Join("/", "wd"))
	assert.Equal(t, filepath.Join("/", "wd", "key"), profile.PasswordFile)
	assert.Equal(t, filepath.Join("/", "wd", "lock"), profile.Lock)
	assert.Equal(t, "status", profile.StatusFile)
	assert.Equal(t, []string{filepath.Join("/", "wd", "exclude")}, profile.Backup.ExcludeFile)
	assert.Equal(t, []string{filepath.Join("/", "wd", "include")}, profile.Backup.FilesFrom)
	assert.Equal(t, []string{"exclude"}, profile.Backup.Exclude)
	assert.ElementsMatch(t, []string{"backup", "root"}, profile.GetBackupSource())
}

func TestRetentionFlags(t *testing.T) {
	testConfig := `[profile]
repository = "test"

[profile.backup]
source = "/source"
tag = ["one", "two"]

[profile.retention]
after-backup = true
keep-last = 3
`

	t.Run("ImplicitCopyPath", func(t *testing.T) {
		profile, err := getTestProfile(t, "toml", testConfig, "profile")
		require.NoError(t, err)
		flags := profile.GetRetentionFlags().ToMap()
		assert.Equal(t, []string{"/source"}, flags["path"])
		assert.Equal(t, []string{"3"}, flags["keep-last"])
		assert.NotContains(t, flags, "tag")
		assert.NotContains(t, flags, "after-backup")
	})

	t.Run("NoPath", func(t *testing.T) {
		profile, err := getTestProfile(t, "toml", testConfig+"path = false\n", "profile")
		require.NoError(t, err)
		flags := profile.GetRetentionFlags().ToMap()
		assert.NotContains(t, flags, "path")
	})

	t.Run("ReplacePath", func(t *testing.T) {
		profile, err := getTestProfile(t, "toml", testConfig+"path = \"/custom\"\n", "profile")
		require.NoError(t, err)
		flags := profile.GetRetentionFlags().ToMap()
		assert.Equal(t, []string{"/custom"}, flags["path"])
	})

	t.Run("CopyTag", func(t *testing.T) {
		profile, err := getTestProfile(t, "toml", testConfig+"tag = true\n", "profile")
		require.NoError(t, err)
		flags := profile.GetRetentionFlags().ToMap()
		assert.Equal(t, []string{"one", "two"}, flags["tag"])
	})
}

func TestCommandHooks(t *testing.T) {
	profile, err := getTestProfile(t, "toml", `[profile]
run-before = "profile-before"
run-after = "profile-after"

[profile.backup]
run-before = ["one", "two"]
run-after = "section-after"
`, "profile")
	require.NoError(t, err)

	before, after := profile.CommandHooks("backup")
	assert.Equal(t, []string{"profile-before", "one", "two"}, before)
	assert.Equal(t, []string{"section-after", "profile-after"}, after)

	before, after = profile.CommandHooks("snapshots")
	assert.Equal(t, []string{"profile-before"}, before)
	assert.Equal(t, []string{"profile-after"}, after)
}

func TestScheduleKeysAreNotFlags(t *testing.T) {
	profile, err := getTestProfile(t, "toml", `[profile.snapshots]
schedule = "daily"
schedule-permission = "user"
some-flag = true
`, "profile")
	require.NoError(t, err)

	flags := profile.GetCommandFlags("snapshots").ToMap()
	assert.NotContains(t, flags, "schedule")
	assert.NotContains(t, flags, "schedule-permission")
	assert.Contains(t, flags, "some-flag")
}

func TestScheduleDurationDoesNotDropTheSection(t *testing.T) {
	profile, err := getTestProfile(t, "toml", `[profile.snapshots]
schedule-lock-wait = "1h30m"
tag = "snap"
run-before = "echo hi"
`, "profile")
	require.NoError(t, err)

	flags := profile.GetCommandFlags("snapshots").ToMap()
	assert.Equal(t, []string{"snap"}, flags["tag"])
	assert.NotContains(t, flags, "schedule-lock-wait")

	before, _ := profile.CommandHooks("snapshots")
	assert.Equal(t, []string{"echo hi"}, before)
}
