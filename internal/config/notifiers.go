package config

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/uybinhphan/goatcounter-bot/internal/domain"
)

const (
	NotifierTypeTelegram  = "telegram"
	NotifierTypeHeartbeat = "heartbeat"
)

// NotifierConfig is a typed envelope around a channel-specific configuration.
// The raw JSON is kept so each notifier can parse its own fields.
type NotifierConfig struct {
	Type    string              `json:"type" validate:"required,notifierType"`
	Watches []domain.TargetName `json:"watches" validate:"required,dive,required"`
	Raw     json.RawMessage     `json:"-"`
}

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("notifierType", validateNotifierType); err != nil {
		panic(fmt.Sprintf("failed to register notifier type validator: %v", err))
	}
}

func validateNotifierType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case NotifierTypeTelegram, NotifierTypeHeartbeat:
		return true
	default:
		return false
	}
}

func (n *NotifierConfig) UnmarshalJSON(data []byte) error {
	n.Raw = data

	type alias NotifierConfig
	temp := struct {
		*alias
	}{
		alias: (*alias)(n),
	}

	if err := json.Unmarshal(data, &temp); err != nil {
		return fmt.Errorf("failed to unmarshal notifier config: %w", err)
	}

	if err := validate.Struct(n); err != nil {
		return fmt.Errorf("invalid notifier config: %w", err)
	}

	return nil
}

var _ json.Unmarshaler = (*NotifierConfig)(nil)
