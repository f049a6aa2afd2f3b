//go:build unsafe

package vault

const borrowChecks = false
