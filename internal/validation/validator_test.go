// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type params struct {
	Limit         int `validate:"gte=0,lte=100"`
	MinSimilarity int `validate:"gte=0,lte=100"`
}

func TestStructPasses(t *testing.T) {
	assert.NoError(t, Struct(params{Limit: 10, MinSimilarity: 50}))
	assert.NoError(t, Struct(params{})) // zeros are within range
}

func TestStructReportsFields(t *testing.T) {
	err := Struct(params{Limit: 200, MinSimilarity: -1})
	require.Error(t, err)

	verr, ok := err.(*Error)
	require.True(t, ok)
	require.Len(t, verr.Fields, 2)

	assert.Equal(t, "limit", verr.Fields[0].Field)
	assert.Equal(t, "lte", verr.Fields[0].Rule)
	assert.Contains(t, verr.Fields[0].Message, "<=")
	assert.Contains(t, err.Error(), "minsimilarity")
}
