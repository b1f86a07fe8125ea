package glob

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newfiles(t *testing.T, root string, names ...string) {
	for _, n := range names {
		path := filepath.Join(root, n)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0777))
		require.NoError(t, os.WriteFile(path, []byte("test"), 0666))
	}
}

func relAll(t *testing.T, root string, paths []string) []string {
	var out []string
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, rel)
	}
	return out
}

func TestGlobRegular(t *testing.T) {
	dirname := t.TempDir()
	newfiles(t, dirname, "base.xml", "foo/test.xml", "coverage.xml/ohmy.txt", "bar/ohsnap.xml",
		"tests.json", "foo/tests.json", "foo/bar/weird.json", "foo/bar/baz/weird.json", "bar/foo/weird.json")
	require.NoError(t, syscall.Mkfifo(filepath.Join(dirname, "special.xml"), 0777))

	matches, skipped, err := GlobTreeRegular(dirname, []string{"*.xml", "/tests.json", "foo/*/weird.json"})
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"base.xml", "foo/test.xml", "bar/ohsnap.xml", "tests.json", "foo/bar/weird.json"},
		relAll(t, dirname, matches))
	assert.ElementsMatch(t, []string{"coverage.xml", "special.xml"}, relAll(t, dirname, skipped))
}

func TestGlobRegularSorted(t *testing.T) {
	dirname := t.TempDir()
	newfiles(t, dirname, "z/report.xml", "a/report.xml", "m/report.xml")

	matches, _, err := GlobTreeRegular(dirname, []string{"report.xml"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/report.xml", "m/report.xml", "z/report.xml"}, relAll(t, dirname, matches))
}

func TestGlobRegularBadPattern(t *testing.T) {
	dirname := t.TempDir()
	newfiles(t, dirname, "report.xml")

	_, _, err := GlobTreeRegular(dirname, []string{"[report"})
	assert.Error(t, err)
}

func TestHasMeta(t *testing.T) {
	assert.False(t, HasMeta("target/surefire/report.xml"))
	assert.True(t, HasMeta("target/*/report.xml"))
	assert.True(t, HasMeta("report-?.xml"))
	assert.True(t, HasMeta("report-[0-9].xml"))
}
