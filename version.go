// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package drush

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// versionPattern matches the first dotted number and the rest of its line.
var versionPattern = regexp.MustCompile(`(\d+\.\d+.*)`)

const maxQuotedOutput = 80 // Bytes of output quoted in ErrVersionUnparseable

// Version runs drush --version and returns the version token, e.g. "8.1.15".
func (r *Runner) Version(ctx context.Context) (string, error) {
	cfg, err := r.snapshot()
	if err != nil {
		return "", err
	}

	out, err := r.execute(ctx, cfg, []string{flagVersion}, nil)
	if err != nil {
		return "", err
	}

	return ParseVersion(out)
}

// ParseVersion extracts the version token from the output of drush --version.
func ParseVersion(output string) (string, error) {
	m := versionPattern.FindStringSubmatch(output)
	if m == nil {
		quoted := strings.TrimSpace(output)
		if len(quoted) > maxQuotedOutput {
			quoted = quoted[:maxQuotedOutput] + "..."
		}

		return "", fmt.Errorf("%w: %q", ErrVersionUnparseable, quoted)
	}

	return strings.TrimSpace(m[1]), nil
}
