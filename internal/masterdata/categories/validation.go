package categories

import (
	"github.com/google/uuid"

	internalShared "github.com/odyssey-erp/odyssey-stock/internal/shared"
)

var errInvalidID = internalShared.NewUserError(internalShared.MsgFieldInvalid, "id")

func (s *Service) validate(c Category) error {
	if c.Code == "" {
		return internalShared.NewUserError(internalShared.MsgFieldRequired, "code")
	}
	if c.Name == "" {
		return internalShared.NewUserError(internalShared.MsgFieldRequired, "name")
	}
	if c.ID != "" {
		if _, err := uuid.Parse(c.ID); err != nil {
			return errInvalidID
		}
	}
	return nil
}
