package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// SocketEnv overrides the IPC socket location when set.
const SocketEnv = "RETRODESK_SOCKET"

// Dir picks the directory for the desktop socket: $XDG_RUNTIME_DIR, then the
// per-user /run/user/<uid>. Without either, a private retrodesk-<uid>
// directory is made under the system temp dir.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}
	uid := os.Getuid()
	if dir := filepath.Join("/run/user", strconv.Itoa(uid)); isDir(dir) {
		return dir, nil
	}
	return privateDir(filepath.Join(os.TempDir(), fmt.Sprintf("retrodesk-%d", uid)))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// privateDir creates dir if needed and strips group and other access from it.
func privateDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create runtime dir: %w", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("stat runtime dir: %w", err)
	}
	if info.Mode().Perm()&0o077 != 0 {
		if err := os.Chmod(dir, 0o700); err != nil {
			return "", fmt.Errorf("restrict runtime dir: %w", err)
		}
	}
	return dir, nil
}

// SocketPath returns $RETRODESK_SOCKET or retrodesk.sock inside Dir.
func SocketPath() (string, error) {
	if p := os.Getenv(SocketEnv); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "retrodesk.sock"), nil
}
