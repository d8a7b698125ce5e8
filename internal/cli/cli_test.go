package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/David-Antunes/gone-netfile/internal/netfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func missingConfig(t *testing.T) string {
	return filepath.Join(t.TempDir(), "netfile.yaml")
}

func TestBuildFromFlags(t *testing.T) {
	stdout, stderr, err := run(t, "build", "-c", writeEmptyConfig(t),
		"--incoming", "0.95", "--channel", "chan-1=0.8", "--channel", "chan-2=0.99")
	require.NoError(t, err)

	out := netfile.NewChannelMap()
	out.Set("chan-1", netfile.Float(0.8))
	out.Set("chan-2", netfile.Float(0.99))
	want, err := netfile.Build(netfile.Float(0.95), out)
	require.NoError(t, err)

	assert.Equal(t, want+"\n", stdout)
	assert.Contains(t, stderr, "config file loaded")
	assert.Contains(t, stderr, "network file written")
}

func TestBuildFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "netfile.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
incoming: 90
format: percent
outgoing:
  - uuid: chan-1
    reliability: 80
  - host: peer.example.org
    reliability: 70
`), 0o600))
	target := filepath.Join(dir, "network.xml")

	stdout, _, err := run(t, "build", "-c", cfg, "--no-header", "-o", target,
		"--channel", "chan-1=85", "--host-channel", "other.example.org=60")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	written, err := os.ReadFile(target)
	require.NoError(t, err)

	out := netfile.NewChannelMap()
	out.Set("chan-1", netfile.Percent(85))
	out.Set(netfile.HostUUID("peer.example.org"), netfile.Percent(70))
	out.Set(netfile.HostUUID("other.example.org"), netfile.Percent(60))
	want, err := netfile.NewBuilder(netfile.WithHeader(false)).Build(netfile.Percent(90), out)
	require.NoError(t, err)
	assert.Equal(t, want+"\n", string(written))
}

func TestBuildIndentFlag(t *testing.T) {
	stdout, _, err := run(t, "build", "-c", writeEmptyConfig(t), "--indent", "  ")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "<?xml version=\"1.0\"?>\n<network>\n  <incoming>"))
	assert.Contains(t, stdout, "  <outgoing></outgoing>\n</network>")
}

func writeEmptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "netfile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("incoming: 1.0\n"), 0o600))
	return path
}

func TestBuildPercentDefaultsIncomingToHundred(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "netfile.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("format: percent\n"), 0o600))

	stdout, _, err := run(t, "build", "-c", cfg, "--no-header")
	require.NoError(t, err)
	assert.Equal(t, "<network><incoming><reliability>100</reliability></incoming><outgoing></outgoing></network>\n", stdout)
}

func TestBuildOverwritesOutputFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "network.xml")
	require.NoError(t, os.WriteFile(target, []byte("stale network file, longer than the new one ........................................"), 0o600))

	_, _, err := run(t, "build", "-c", writeEmptyConfig(t), "--no-header", "-o", target)
	require.NoError(t, err)

	written, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "<network><incoming><reliability>1.0</reliability></incoming><outgoing></outgoing></network>\n", string(written))
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		errPart string
	}{
		{"explicit config missing", []string{"build", "-c", missingConfig(t)}, "unable to load config file"},
		{"malformed channel", []string{"build", "-c", writeEmptyConfig(t), "--channel", "chan-1"}, "expected name=reliability"},
		{"non numeric channel", []string{"build", "-c", writeEmptyConfig(t), "--channel", "chan-1=high"}, "--channel"},
		{"channel out of range", []string{"build", "-c", writeEmptyConfig(t), "--channel", "chan-1=1.5"}, "between 0 and 1"},
		{"bad format", []string{"build", "-c", writeEmptyConfig(t), "--format", "ratio"}, "must be one of"},
		{"bad log level", []string{"-v", "chatty", "build"}, "log level"},
		{"invalid channel id", []string{"build", "-c", writeEmptyConfig(t), "--channel", "bad\x01id=0.5"}, "character not allowed in XML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
			assert.Empty(t, stdout)
		})
	}
}

func TestUUIDCommand(t *testing.T) {
	stdout, _, err := run(t, "uuid", "broker-1.example.org")
	require.NoError(t, err)
	assert.Equal(t, netfile.HostUUID("broker-1.example.org")+"\n", stdout)

	host, err := os.Hostname()
	require.NoError(t, err)
	stdout, _, err = run(t, "uuid")
	require.NoError(t, err)
	assert.Equal(t, netfile.HostUUID(host)+"\n", stdout)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "gone-netfile (gone-netfile revision dev)\n", stdout)
}
