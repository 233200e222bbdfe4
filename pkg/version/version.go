// Copyright 2026 The j2 Authors.
// SPDX-License-Identifier: Apache-2.0

package version

// Version is the current j2 release. Bumped as part of the release process.
const Version = "0.8.0"
