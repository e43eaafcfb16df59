package vitals

import "context"

// Retry runs op up to attempts times, stopping early on success or on the
// first error for which retryable returns false. It returns the last error
// when all attempts are exhausted. Context cancellation between attempts is
// reported as the context error.
func Retry(ctx context.Context, attempts int, retryable func(error) bool, op func(context.Context) error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		err = op(ctx)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
	}
	return err
}
