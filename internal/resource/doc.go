// Package resource implements the Controller for shared limits.
//
// The Controller manages two resource types:
//
//   - Memory: Track and limit stored vector memory (non-blocking, fail-fast)
//   - Search: Bound concurrent searches and optionally rate-limit them
//
// # Memory Management
//
// Memory tracking uses a weighted semaphore for hard limits and atomic counters
// for usage tracking. AcquireMemory is non-blocking and returns immediately
// with ErrMemoryLimitExceeded if the limit would be exceeded:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(1024*1024); err != nil {
//	    // ErrMemoryLimitExceeded - caller decides retry/backoff
//	}
//	defer rc.ReleaseMemory(1024*1024)
//
// # Search Limits
//
//	rc := resource.NewController(resource.Config{
//	    MaxConcurrentSearches: 8,
//	    SearchesPerSec:        500,
//	    SearchBurst:           50,
//	})
//
//	if err := rc.AcquireSearch(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseSearch()
//
// # Nil Safety
//
// All methods handle nil Controller gracefully - they become no-ops.
package resource
