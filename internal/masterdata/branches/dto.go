package branches

// BranchForm is the body of POST /api/branches. An empty ID creates a branch.
type BranchForm struct {
	ID       string `json:"id" validate:"omitempty,uuid"`
	Code     string `json:"code" validate:"required,max=20"`
	Name     string `json:"name" validate:"required,max=120"`
	Address  string `json:"address" validate:"max=255"`
	Phone    string `json:"phone" validate:"max=40"`
	IsActive *bool  `json:"is_active"`
}

func (f BranchForm) toBranch() Branch {
	active := true
	if f.IsActive != nil {
		active = *f.IsActive
	}
	return Branch{
		ID:       f.ID,
		Code:     f.Code,
		Name:     f.Name,
		Address:  f.Address,
		Phone:    f.Phone,
		IsActive: active,
	}
}
