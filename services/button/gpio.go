package button

import (
	"fmt"
	"io"

	"github.com/warthog618/go-gpiocdev"
	"go.uber.org/zap"
)

// WatchGPIO requests line on chip (e.g. "gpiochip0", line 26) as a pulled-up
// input and feeds every falling edge, the button closing to ground, into b.
// Close the returned line to stop watching.
func WatchGPIO(chip string, line int, b *DebouncedButton, logger *zap.Logger) (io.Closer, error) {
	l, err := gpiocdev.RequestLine(chip, line,
		gpiocdev.WithConsumer("habit tracker"),
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			fired := b.Pressed()
			logger.Debug("Button edge",
				zap.Int("line", evt.Offset),
				zap.Uint32("seqno", evt.Seqno),
				zap.Bool("fired", fired),
			)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("request GPIO %s line %d: %w", chip, line, err)
	}
	return l, nil
}
