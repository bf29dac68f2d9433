package amqp

import (
	"encoding/json"
	"time"

	"cashout/internal/core"
)

// WeekSavedMessage tells the export worker that a ledger was written. It
// carries only the keys; the worker re-reads the document from the store so
// it always exports the latest saved state, not the state at publish time.
type WeekSavedMessage struct {
	TenantID  string      `json:"tenant_id"`
	WeekID    core.WeekID `json:"week_id"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewWeekSavedMessage(tenantID string, weekID core.WeekID) *WeekSavedMessage {
	return &WeekSavedMessage{
		TenantID:  tenantID,
		WeekID:    weekID,
		Timestamp: time.Now(),
	}
}

func (m *WeekSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func WeekSavedMessageFromJSON(data []byte) (*WeekSavedMessage, error) {
	var msg WeekSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
