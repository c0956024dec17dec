// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

package recommend

import "errors"

// Sentinel errors returned by the engine. Callers classify with errors.Is;
// anything else is a transient infrastructure failure and should surface as
// a 500-class response.
var (
	// ErrNotFound indicates the requested subject (user or project) does
	// not exist, or has no skills registered where the operation requires
	// them.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates a request parameter outside its valid
	// range.
	ErrInvalidArgument = errors.New("invalid argument")
)
