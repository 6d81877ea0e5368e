package request

type NavigateRequest struct {
	Action string `json:"action" validate:"required"`
}
