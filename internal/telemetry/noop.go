package telemetry

import (
	"context"

	"github.com/hpungsan/avrora/internal/activity"
)

// NoOp is a Recorder that does nothing.
type NoOp struct{}

func (NoOp) SessionClosed(ctx context.Context, s activity.Session, recordErr error) {}

func (NoOp) SampleFailed(ctx context.Context, err error) {}

func (NoOp) Close(ctx context.Context) error {
	return nil
}
