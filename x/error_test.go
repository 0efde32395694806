/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package x

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestWrapf(t *testing.T) {
	require.NoError(t, Wrapf(nil, "reading %s", "config"))

	base := errors.New("boom")
	err := Wrapf(base, "reading %s", "config")
	require.EqualError(t, err, "reading config: boom")
	require.Equal(t, base, errors.Cause(err))
}

func TestAssertionsPass(t *testing.T) {
	require.NotPanics(t, func() {
		Check(nil)
		AssertTrue(true)
		AssertTruef(true, "unused %d", 1)
		Ignore(errors.New("ignored"))
	})
}
