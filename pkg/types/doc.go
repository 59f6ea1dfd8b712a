// SPDX-License-Identifier: MPL-2.0

// Package types holds value types shared by the ds packages. It imports only
// the standard library.
package types
