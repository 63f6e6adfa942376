package encoder

import "context"

// Provider hands an ingested video over to the encoding pipeline.
// Submission is fire-and-forget: encoding progress is tracked by the
// workers themselves, not by the sync job.
type Provider interface {
	Submit(ctx context.Context, videoID uint) error
}
