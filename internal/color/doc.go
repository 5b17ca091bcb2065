// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color wraps strings in ANSI escape codes for console output.
// Output is coloured only when stdout is a terminal, unless NO_COLOR or
// FORCE_COLOR says otherwise.
package color
