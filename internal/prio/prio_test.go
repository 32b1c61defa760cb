package prio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/resticwrap/resticwrap/internal/profile"
)

func TestCommandPrefix(t *testing.T) {
	testCases := []struct {
		description string
		global      *profile.Global
		goos        string
		expected    []string
	}{
		{"no global section", nil, "linux", nil},
		{"nothing requested", &profile.Global{}, "linux", []string{}},
		{"nice", &profile.Global{Nice: 10}, "linux", []string{"nice", "-n", "10"}},
		{"negative nice", &profile.Global{Nice: -5}, "darwin", []string{"nice", "-n", "-5"}},
		{
			"ionice",
			&profile.Global{IONice: true, IONiceClass: 2},
			"linux",
			[]string{"ionice", "-c", "2"},
		},
		{
			"ionice with level",
			&profile.Global{IONice: true, IONiceClass: 2, IONiceLevel: 6},
			"linux",
			[]string{"ionice", "-c", "2", "-n", "6"},
		},
		{
			"ionice and nice",
			&profile.Global{IONice: true, IONiceClass: 3, Nice: 19},
			"linux",
			[]string{"ionice", "-c", "3", "nice", "-n", "19"},
		},
		{"ionice is linux only", &profile.Global{IONice: true, IONiceClass: 2}, "darwin", []string{}},
		{"windows has neither", &profile.Global{IONice: true, Nice: 10}, "windows", nil},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			assert.Equal(t, testCase.expected, commandPrefix(testCase.global, testCase.goos))
		})
	}
}

func TestWrapCommandLine(t *testing.T) {
	binary, arguments := Wrap("/usr/bin/restic", []string{"backup", "/home"}, &profile.Global{Nice: 10})
	assert.Equal(t, "nice", binary)
	assert.Equal(t, []string{"-n", "10", "/usr/bin/restic", "backup", "/home"}, arguments)
}

func TestWrapWithoutPriority(t *testing.T) {
	binary, arguments := Wrap("/usr/bin/restic", []string{"snapshots"}, profile.NewGlobal())
	assert.Equal(t, "/usr/bin/restic", binary)
	assert.Equal(t, []string{"snapshots"}, arguments)
}
