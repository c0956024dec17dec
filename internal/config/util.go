// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/v2"
)

// sliceKeys are list-valued settings that environment variables supply as
// comma-separated strings.
var sliceKeys = []string{
	"security.cors_origins",
}

// normalizeSlices splits comma-separated string values into slices so env
// overrides unmarshal the same way YAML lists do.
func normalizeSlices(k *koanf.Koanf) {
	for _, key := range sliceKeys {
		raw, ok := k.Get(key).(string)
		if !ok {
			continue
		}

		var parts []string
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		_ = k.Set(key, parts)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
