package req

type CreateChatRequest struct {
	Name    string `json:"name" form:"name" validate:"required"`
	OwnerID uint   `json:"owner_id" form:"owner_id" validate:"required"`
}

type UpdateChatRequest struct {
	Name    *string `json:"name" form:"name" validate:"omitnil,min=1"`
	OwnerID *uint   `json:"owner_id" form:"owner_id" validate:"omitnil,min=1"`
}

type MembershipRequest struct {
	AccountID uint `json:"account_id" form:"account_id" validate:"required"`
}

type MessageRequest struct {
	AccountID uint   `json:"account_id" form:"account_id" validate:"required"`
	Text      string `json:"text" form:"text" validate:"required"`
}

type UpdateMessageRequest struct {
	Text string `json:"text" form:"text" validate:"required"`
}
