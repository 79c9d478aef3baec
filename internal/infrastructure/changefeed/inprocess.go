package changefeed

import (
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

// NewGoChannel returns the in-process pub/sub. It is not persistent, so the
// consumer must be running before the first publish.
func NewGoChannel(buffer int64, logger *logging.Logger) *gochannel.GoChannel {
	if logger == nil {
		logger = logging.Default()
	}
	if buffer <= 0 {
		buffer = 256
	}
	return gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: buffer},
		NewLoggerAdapter(logger.Named("gochannel")),
	)
}
