// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a *slog.Logger in a context.Context.
//
// The default logger writes human-readable lines through ConsoleHandler.
// Its level is read once from the environment variable named after the
// executable, e.g. DRUSHRUN_LOG_LEVEL for a binary called drushrun.
// Accepted values are DEBUG, INFO, WARN and ERROR; anything else means WARN.
package ctxlog
