package products

import (
	"github.com/google/uuid"

	internalShared "github.com/odyssey-erp/odyssey-stock/internal/shared"
)

func (s *Service) check(p Product) error {
	if p.SKU == "" {
		return internalShared.NewUserError(internalShared.MsgFieldRequired, "sku")
	}
	if p.Name == "" {
		return internalShared.NewUserError(internalShared.MsgFieldRequired, "name")
	}
	if p.Price < 0 {
		return internalShared.NewUserError(internalShared.MsgFieldInvalid, "price")
	}
	if p.MinStock < 0 {
		return internalShared.NewUserError(internalShared.MsgFieldInvalid, "min_stock")
	}
	if p.ID != "" {
		if _, err := uuid.Parse(p.ID); err != nil {
			return internalShared.NewUserError(internalShared.MsgFieldInvalid, "id")
		}
	}
	return nil
}
