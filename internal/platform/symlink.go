package platform

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// sidecarSuffix names the file that records a link target when a copy had
// to stand in for a symlink.
const sidecarSuffix = ".target"

// LinkDir makes link point at the directory target. On Windows without
// developer mode, where symlinks fail, the tree is copied instead and the
// target recorded in a sidecar file.
func LinkDir(target, link string) error {
	err := os.Symlink(target, link)
	if err == nil || runtime.GOOS != "windows" {
		return err
	}

	if err := CopyDir(target, link); err != nil {
		return fmt.Errorf("symlink fallback (copy) failed: %w", err)
	}
	// The copy is usable without the sidecar; only ReadLinkTarget needs it.
	_ = os.WriteFile(link+sidecarSuffix, []byte(target), 0644)
	return nil
}

// ReadLinkTarget returns the target of a link made by LinkDir.
func ReadLinkTarget(path string) (string, error) {
	target, err := os.Readlink(path)
	if err == nil {
		return target, nil
	}

	data, readErr := os.ReadFile(path + sidecarSuffix)
	if readErr != nil {
		return "", fmt.Errorf("readlink failed and no %s sidecar found: %w", sidecarSuffix, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// RemoveLink removes a link made by LinkDir, including a fallback copy and
// its sidecar.
func RemoveLink(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}

	if info.Mode()&os.ModeSymlink != 0 {
		err = os.Remove(path)
	} else {
		err = os.RemoveAll(path)
	}
	os.Remove(path + sidecarSuffix) // best-effort
	return err
}
