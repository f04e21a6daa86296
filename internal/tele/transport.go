package tele

import (
	"context"

	"github.com/temoto/tpanel/log2"
)

// Transport contract:
// - Init fails only with invalid config, ignores network errors
// - Send* return false to retry later; message stays in queue
// - application may start without network available
type Transporter interface {
	Init(ctx context.Context, log *log2.Log, config Config, onCommand CommandCallback) error
	SendState(payload []byte) bool
	SendMessage(payload []byte) bool
	Close()
}

type CommandCallback func(context.Context, []byte) bool
