// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that build filesystem fixtures:
// environment variables (MustSetenv, MustUnsetenv, SetHomeDir), directories
// (MustChdir, MustMkdirAll), command documents (WriteFile) and git work trees
// (InitGitRepo). Every helper fails the test on error.
package testutil
