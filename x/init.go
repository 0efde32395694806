/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"fmt"
)

var (
	// These variables are set using -ldflags
	s2geoVersion   string
	gitBranch      string
	lastCommitSHA  string
	lastCommitTime string
)

// BuildDetails returns a string containing details about the s2geo binary.
func BuildDetails() string {
	return fmt.Sprintf(`
s2geo version    : %v
Commit SHA-1     : %v
Commit timestamp : %v
Branch           : %v

Licensed under the Apache Public License 2.0. © Hypermode Inc.

`,
		Version(), lastCommitSHA, lastCommitTime, gitBranch)
}

// Version returns the version set at link time, or "dev".
func Version() string {
	if s2geoVersion == "" {
		return "dev"
	}
	return s2geoVersion
}
