package branches

import (
	"strings"

	"github.com/google/uuid"

	internalShared "github.com/odyssey-erp/odyssey-stock/internal/shared"
)

func (s *Service) validate(b Branch) error {
	if strings.TrimSpace(b.Code) == "" {
		return internalShared.NewUserError(internalShared.MsgFieldRequired, "code")
	}
	if strings.TrimSpace(b.Name) == "" {
		return internalShared.NewUserError(internalShared.MsgFieldRequired, "name")
	}
	if b.ID != "" {
		return validateID(b.ID)
	}
	return nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return internalShared.NewUserError(internalShared.MsgFieldInvalid, "id")
	}
	return nil
}
