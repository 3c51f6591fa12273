package enum

type ErrorCode string

const (
	ErrorEntityNotFound         ErrorCode = "entity_not_found"
	ErrorDuplicateEntityValue   ErrorCode = "duplicate_entity_value"
	ErrorChatMembershipRequired ErrorCode = "chat_membership_required"
	ErrorChatOwnerRemoval       ErrorCode = "chat_owner_removal"
	ErrorInvalidCredentials     ErrorCode = "invalid_credentials"
	ErrorAuthenticationRequired ErrorCode = "authentication_required"
	ErrorExpiredAccessToken     ErrorCode = "expired_access_token"
	ErrorInvalidAccessToken     ErrorCode = "invalid_access_token"
	ErrorInvalidRequest         ErrorCode = "invalid_request"
	ErrorInternal               ErrorCode = "internal_error"
)
