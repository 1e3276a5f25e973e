package notify

import (
	"github.com/gen2brain/beeep"

	"github.com/MIkhsanPasaribu/studyhub/internal/logger"
)

// Notifier delivers a short message to the user outside the terminal.
type Notifier interface {
	Notify(title, message string)
}

// Desktop sends OS notifications with a sound. Delivery errors are logged
// and dropped so a missing notification daemon never interrupts a session.
type Desktop struct{}

func NewDesktop() Desktop {
	beeep.AppName = "studyhub"
	return Desktop{}
}

func (Desktop) Notify(title, message string) {
	if err := beeep.Alert(title, message, ""); err != nil {
		logger.Warn("Desktop notification failed", "title", title, "error", err)
	}
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(string, string) {}
