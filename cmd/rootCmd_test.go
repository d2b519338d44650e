package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/juju/clock"
	"github.com/juju/clock/testclock"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// writeTemp creates a temp file with content and returns its path.
func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

// resetConfig clears global configuration so tests don't leak state
func resetConfig() {
	viper.Reset()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	// Reset flags to defaults and clear Changed status
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
	cfgInventory = ""
	cfgTargets = nil
	cfgUser = ""
	cfgPassword = ""
	cfgKeyPath = ""
	cfgPassphrase = ""
	cfgPort = 0
	cfgKnownHosts = ""
	cfgStrictHost = true
	cfgCmdTimeout = 0
	cfgConnTimeout = 0
	cfgOutDir = ""
	cfgReportPath = ""
	cfgLogLevel = "INFO"
	cfgInstallPubKeyPath = ""
	backupClock = clock.WallClock
	rootCmd.SetOut(nil)
	rootCmd.SetErr(nil)
}

// pinClock fixes backupClock at 2024-06-01 for the duration of the test.
func pinClock(t *testing.T) {
	t.Helper()
	orig := backupClock
	backupClock = testclock.NewClock(time.Date(2024, 6, 1, 10, 30, 0, 0, time.Local))
	t.Cleanup(func() { backupClock = orig })
}

// stubConnect replaces connectFunc with one handing out conns by address.
// Addresses missing from conns fail with a connection error.
func stubConnect(t *testing.T, conns map[string]*fakeConn) *[]string {
	t.Helper()
	orig := connectFunc
	t.Cleanup(func() { connectFunc = orig })
	var dialed []string
	connectFunc = func(h hostConfig, opts dialOptions) (routerConn, error) {
		dialed = append(dialed, h.Address)
		if c, ok := conns[h.Address]; ok {
			return c, nil
		}
		return nil, connectionRefused(h.target())
	}
	return &dialed
}

func TestRun_BacksUpEveryRouterAndWritesReport(t *testing.T) {
	resetConfig()
	pinClock(t)
	a := newFakeConn("RB-Core")
	b := newFakeConn("RB-Edge")
	dialed := stubConnect(t, map[string]*fakeConn{"10.0.0.1": a, "10.0.0.2": b})

	tmp := t.TempDir()
	inv := writeTemp(t, tmp, "routers.yaml", `
defaults:
  username: backup
routers:
  - address: 10.0.0.1
    password: one
  - host: 10.0.0.2
    user: other
`)
	outDir := filepath.Join(tmp, "backups")
	reportPath := filepath.Join(tmp, "summary.yaml")

	var logs bytes.Buffer
	rootCmd.SetOut(&logs)
	rootCmd.SetArgs([]string{"run", "--inventory", inv, "--out-dir", outDir, "--report", reportPath})
	require.NoError(t, rootCmd.Execute())

	require.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, *dialed)
	require.Equal(t, 1, a.closes)
	require.Equal(t, 1, b.closes)

	got, err := os.ReadFile(filepath.Join(outDir, "RB-Core_2024-06-01.rsc"))
	require.NoError(t, err)
	require.Equal(t, a.files["RB-Core_2024-06-01.rsc"], string(got))
	_, err = os.Stat(filepath.Join(outDir, "RB-Edge_2024-06-01.rsc"))
	require.NoError(t, err)

	b2, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var rep yamlReport
	require.NoError(t, yaml.Unmarshal(b2, &rep))
	require.Equal(t, 2, rep.Succeeded)
	require.Equal(t, 0, rep.Failed)
	require.Equal(t, "RB-Edge", rep.Hosts[1].Identity)

	require.Contains(t, logs.String(), "[10.0.0.1] Router identity retrieved: RB-Core")
	require.Contains(t, logs.String(), "Backup finished: 2 succeeded, 0 failed, ")
}

func TestRun_FailureOnOneRouterDoesNotStopOthers(t *testing.T) {
	resetConfig()
	pinClock(t)
	good := newFakeConn("Good")
	bad := newFakeConn("Bad")
	bad.exportStderr = "no such item"
	dialed := stubConnect(t, map[string]*fakeConn{"10.0.0.2": bad, "10.0.0.3": good})

	tmp := t.TempDir()
	reportPath := filepath.Join(tmp, "summary.yaml")
	var logs bytes.Buffer
	rootCmd.SetOut(&logs)
	rootCmd.SetArgs([]string{
		"run",
		"--target", "10.0.0.1", "--target", "10.0.0.2", "--target", "10.0.0.3",
		"--user", "backup",
		"--out-dir", tmp,
		"--report", reportPath,
	})
	err := rootCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "backup completed with 2 failures")
	require.Equal(t, []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}, *dialed)

	_, err = os.Stat(filepath.Join(tmp, "Good_2024-06-01.rsc"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(tmp, "Bad_2024-06-01.rsc"))
	require.True(t, os.IsNotExist(err))

	b, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var rep yamlReport
	require.NoError(t, yaml.Unmarshal(b, &rep))
	require.Equal(t, 1, rep.Succeeded)
	require.Equal(t, 2, rep.Failed)
	require.Equal(t, "connection error", rep.Hosts[0].ErrorKind)
	require.Equal(t, "remote command error", rep.Hosts[1].ErrorKind)
	require.Contains(t, rep.Hosts[1].Error, "no such item")
	require.Equal(t, "ok", rep.Hosts[2].Status)

	require.Contains(t, logs.String(), "[10.0.0.2] remote command error")
}

func TestRun_RequiresRouters(t *testing.T) {
	resetConfig()
	rootCmd.SetOut(io.Discard)
	rootCmd.SetArgs([]string{"run", "--user", "backup"})
	err := rootCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "no routers configured")
}

func TestRun_RejectsBadLogLevel(t *testing.T) {
	resetConfig()
	rootCmd.SetOut(io.Discard)
	rootCmd.SetArgs([]string{"run", "--target", "10.0.0.1", "--user", "u", "--log-level", "LOUD"})
	err := rootCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid --log-level")
}

func TestRun_DefaultsOutDirToWorkingDirectory(t *testing.T) {
	resetConfig()
	pinClock(t)
	stubConnect(t, map[string]*fakeConn{"10.0.0.1": newFakeConn("Here")})

	tmp := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	rootCmd.SetOut(io.Discard)
	rootCmd.SetArgs([]string{"run", "--target", "10.0.0.1", "--user", "backup"})
	require.NoError(t, rootCmd.Execute())
	_, err = os.Stat(filepath.Join(tmp, "Here_2024-06-01.rsc"))
	require.NoError(t, err)
}

func TestRun_WarnsOnAdminAccount(t *testing.T) {
	resetConfig()
	pinClock(t)
	stubConnect(t, map[string]*fakeConn{"10.0.0.1": newFakeConn("R1")})

	var logs bytes.Buffer
	rootCmd.SetOut(&logs)
	rootCmd.SetArgs([]string{"run", "--target", "10.0.0.1", "--user", "admin", "--out-dir", t.TempDir()})
	require.NoError(t, rootCmd.Execute())
	require.Contains(t, logs.String(), "WARNING [10.0.0.1] using the full-rights admin account")
}

func TestInit_EnvOverrides(t *testing.T) {
	resetConfig()
	t.Setenv("MIKROTIK_BACKUP_PASSWORD", "s3cr3t")
	t.Setenv("MIKROTIK_BACKUP_PASSPHRASE", "pp")
	t.Setenv("MIKROTIK_BACKUP_KNOWN_HOSTS", "/tmp/kh")
	t.Setenv("MIKROTIK_BACKUP_CMD_TIMEOUT", "90s")

	rootCmd.SetOut(io.Discard)
	rootCmd.SetArgs([]string{"verify", "--target", "10.0.0.1", "--user", "backup"})
	require.NoError(t, rootCmd.Execute())
	require.Equal(t, "s3cr3t", cfgPassword)
	require.Equal(t, "pp", cfgPassphrase)
	require.Equal(t, "/tmp/kh", cfgKnownHosts)
	require.Equal(t, 90*time.Second, cfgCmdTimeout)
}

func TestInit_EnvSuppliesInventoryAndUser(t *testing.T) {
	resetConfig()
	tmp := t.TempDir()
	inv := writeTemp(t, tmp, "routers.yaml", "routers:\n  - address: 192.168.88.1\n")
	t.Setenv("MIKROTIK_BACKUP_INVENTORY", inv)
	t.Setenv("MIKROTIK_BACKUP_USER", "backup")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"verify"})
	require.NoError(t, rootCmd.Execute())
	require.Equal(t, "Inventory OK (1 routers)\n", out.String())
}
