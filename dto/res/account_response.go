package res

type Metadata struct {
	Count int `json:"count"`
}

type AccountResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type AccountCollection struct {
	Metadata Metadata          `json:"metadata"`
	Accounts []AccountResponse `json:"accounts"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
