package response

import "fitbook/internal/usecase/queries"

type LoginResponse struct {
	AccessToken string                        `json:"access_token"`
	Member      *queries.AuthorizedMemberView `json:"member"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}
