// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputValidator(t *testing.T) {
	for _, valid := range []string{"text", "json", "raw", "yaml"} {
		assert.NoError(t, OutputValidator(valid), valid)
	}
	assert.Error(t, OutputValidator("xml"))
	assert.Error(t, OutputValidator(""))
}

func TestPositiveIntValidator(t *testing.T) {
	assert.NoError(t, PositiveIntValidator(1))
	assert.NoError(t, PositiveIntValidator(1000))
	assert.Error(t, PositiveIntValidator(0))
	assert.Error(t, PositiveIntValidator(-5))
	assert.Error(t, PositiveIntValidator("10"))
}

func TestFlagValidators_StopsAtFirstError(t *testing.T) {
	calls := 0
	failing := func(any) error {
		calls++
		return assert.AnError
	}
	neverReached := func(any) error {
		calls++
		return nil
	}

	err := FlagValidators("x", failing, neverReached)
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
