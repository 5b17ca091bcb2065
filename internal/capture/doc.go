// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package capture collects the output of a child process while it runs.
// Each chunk written by the process is handed to an optional observer and an
// optional mirror writer as soon as it arrives, and is accumulated into a
// bounded buffer. When the bound is exceeded the buffer stops growing and a
// callback fires so the caller can stop the process.
package capture
