// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package drush

var (
	// BuildVersion is set during the build process.
	BuildVersion = "dev"
	// Commit is set during the build process.
	Commit = "unknown"
)
