package snmp

import (
	"github.com/logingood/nut-dmf/models"
)

type DecorateFunc func(*models.Identification) error
type Decorator func(DecorateFunc) DecorateFunc

// Compose wraps d with decorators; the last decorator runs first.
func Compose(d DecorateFunc, decorators ...Decorator) DecorateFunc {
	for _, decorator := range decorators {
		d = decorator(d)
	}

	return d
}
