//go:build !unsafe

package vault

// Release-time grant consistency checks are on by default. Build with
// -tags unsafe to compile them out; the count-wrap corruption check in
// AcquireShared stays on in every build mode.
const borrowChecks = true
