package request

type ClientRequest struct {
	Name    string  `json:"name" validate:"required,max=100"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=300"`
	GSTID   *string `json:"gstId,omitempty" validate:"omitempty,max=20"`
}

type ListClientsRequest struct {
	PaginatedRequest
	Search string `json:"q" validate:"omitempty,max=100"`
}
