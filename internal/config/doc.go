// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads the runner settings used by drushrun.
//
// Settings come from an optional YAML file, fetched from any go-getter URL,
// and are then overridden by DRUSH_* environment variables:
//
//	binary: drush
//	max_buffer_bytes: 268435456
//	log: false
//	shell: /bin/bash
//	cwd: /var/www/site
//	env:
//	  DRUSH_PHP: /usr/bin/php8.2
//	timeout: 5m
//	discovery: shell # or path
//	defaults:
//	  alias: "@self"
//	  uri: https://example.com
//	  simulate: false
package config
