//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/sh"
)

// versionFlags stamps cli.Version from git describe when the tree has a
// tag or commit to describe.
func versionFlags() []string {
	out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	version := strings.TrimPrefix(strings.TrimSpace(out), "v")
	if err != nil || version == "" {
		return nil
	}
	return []string{"-ldflags", "-X " + modulePath + "/internal/cli.Version=" + version}
}

// Build compiles the tofico binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", binaryDir, err)
	}
	args := append([]string{"build", "-o", filepath.Join(binaryDir, binaryName)}, versionFlags()...)
	return sh.RunV(binGo, append(args, cmdDir)...)
}

// Install puts tofico into GOBIN (or GOPATH/bin) with the same version stamp
// as Build.
func Install() error {
	args := append([]string{"install"}, versionFlags()...)
	return sh.RunV(binGo, append(args, cmdDir)...)
}

// Clean removes bin/, including the coverage profile, then runs go clean.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return fmt.Errorf("remove %s: %w", binaryDir, err)
	}
	return sh.RunV(binGo, "clean")
}
