package devhost

import (
	"encoding/json"
	"time"

	"github.com/pengulab/pengu-arcade/internal/protocol"
	"github.com/pengulab/pengu-arcade/internal/store"
)

// The broadcast bridge reaches hosts this process holds no endpoint to:
// every host writes tagged records to one well-known store key and watches
// the same key, suppressing its own writes by sender id.

func (h *Host) publishBroadcast(eventType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		h.logger.Warn("host: cannot marshal broadcast payload", "type", eventType, "error", err)
		return
	}
	rec := protocol.BroadcastRecord{
		SenderID:  h.hostID,
		Type:      eventType,
		Data:      raw,
		Timestamp: time.Now().UnixMilli(),
	}
	h.opts.Store.SetJSON(store.BroadcastKey, rec)
}

func (h *Host) watchBroadcast() (cancel func()) {
	return h.opts.Store.Watch(store.BroadcastKey, func(value string) {
		var rec protocol.BroadcastRecord
		if err := json.Unmarshal([]byte(value), &rec); err != nil {
			h.logger.Warn("host: discarding malformed broadcast record", "error", err)
			return
		}
		if rec.SenderID == h.hostID {
			return
		}
		h.fanOut(protocol.NewHostEvent(rec.Type, rec.Data))
	})
}
