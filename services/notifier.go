// services/notifier.go
package services

import (
	"go.uber.org/zap"

	"edvantage/models"
)

// Notifier is the toast sink the engine pushes unlock notifications into.
// Implementations display the toast transiently and never call back.
type Notifier interface {
	Notify(toast models.Toast)
}

// LogNotifier writes toasts to the log. Used when no UI sink is attached.
type LogNotifier struct {
	log *zap.SugaredLogger
}

func NewLogNotifier(log *zap.SugaredLogger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(toast models.Toast) {
	n.log.Infow("toast", "title", toast.Title, "description", toast.Description)
}

// ChannelNotifier buffers toasts for a UI consumer. When the buffer is full
// the oldest toast is dropped so the engine never blocks on a slow reader.
type ChannelNotifier struct {
	ch chan models.Toast
}

func NewChannelNotifier(size int) *ChannelNotifier {
	if size < 1 {
		size = 1
	}
	return &ChannelNotifier{ch: make(chan models.Toast, size)}
}

func (n *ChannelNotifier) Notify(toast models.Toast) {
	for {
		select {
		case n.ch <- toast:
			return
		default:
			select {
			case <-n.ch:
			default:
			}
		}
	}
}

// Toasts is the consumer side of the sink.
func (n *ChannelNotifier) Toasts() <-chan models.Toast {
	return n.ch
}
