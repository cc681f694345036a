package processors

import (
	"encoding/json"
	"fmt"

	"variantd/internal/config"
	"variantd/internal/events"
	"variantd/internal/logger"
	"variantd/internal/worker/processors/catalog"

	"gorm.io/gorm"
)

// EventProcessor routes raw draft events to the right processor.
type EventProcessor struct {
	config  *config.Config
	logger  *logger.Logger
	applier *catalog.Applier
}

func NewEventProcessor(cfg *config.Config, logger *logger.Logger, db *gorm.DB) *EventProcessor {
	return &EventProcessor{
		config:  cfg,
		logger:  logger,
		applier: catalog.New(db, logger),
	}
}

// Process decodes one message and dispatches on its event type. Unknown
// types are logged and skipped so a newer producer never wedges the worker.
func (ep *EventProcessor) Process(raw []byte) error {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("processors: decode event envelope: %w", err)
	}

	switch envelope.Type {
	case "draft.submitted":
		var event events.DraftSubmitted
		if err := json.Unmarshal(raw, &event); err != nil {
			return fmt.Errorf("processors: decode draft.submitted: %w", err)
		}
		return ep.applier.Apply(event)
	default:
		ep.logger.Debug("Skipping event of unknown type %q", envelope.Type)
		return nil
	}
}
