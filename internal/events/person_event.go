package events

import (
	"time"

	"github.com/fathima-sithara/person-service/internal/domain"
)

const (
	TypePersonCreated      = "person.created"
	TypePersonPhoneUpdated = "person.phone_updated"
)

type PersonEvent struct {
	Type   string         `json:"type"`
	Person *domain.Person `json:"person"`
	At     time.Time      `json:"at"`
}
