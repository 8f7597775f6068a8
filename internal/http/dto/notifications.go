package dto

import "github.com/andreasstove999/ecommerce-system/storefront-go/internal/notify"

type NotificationsResponse struct {
	Notifications []notify.Notice `json:"notifications"`
}
