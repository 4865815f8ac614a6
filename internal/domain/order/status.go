package order

import (
	"strings"

	"github.com/Zhima-Mochi/storefront/internal/pkg/apperr"
)

var ErrInvalidStatus = apperr.New(apperr.KindValidation,
	"order: status must be one of Processing, Confirmed, Shipped, Delivered, Cancelled")

type Status string

const (
	StatusProcessing Status = "Processing"
	StatusConfirmed  Status = "Confirmed"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

var Statuses = []Status{StatusProcessing, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled}

// labels maps accepted spellings, including the storefront's original Ukrainian labels, to statuses.
var labels = map[string]Status{
	"processing":   StatusProcessing,
	"confirmed":    StatusConfirmed,
	"shipped":      StatusShipped,
	"delivered":    StatusDelivered,
	"cancelled":    StatusCancelled,
	"canceled":     StatusCancelled,
	"обробляється": StatusProcessing,
	"підтверджено": StatusConfirmed,
	"відправлено":  StatusShipped,
	"доставлено":   StatusDelivered,
	"скасовано":    StatusCancelled,
}

func ParseStatus(s string) (Status, error) {
	if st, ok := labels[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return "", ErrInvalidStatus
}

// Terminal reports whether no further fulfilment happens after s.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}
