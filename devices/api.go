package devices

import (
	"context"

	"github.com/logingood/nut-dmf/models"
)

// Devices is an inventory the scanner identifies devices from.
type Devices interface {
	ListDevices(ctx context.Context) ([]models.Device, error)
}
