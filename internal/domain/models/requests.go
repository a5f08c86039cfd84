package models

// SelectModelRequest switches the active signal model and restarts polling.
type SelectModelRequest struct {
	Model string `json:"model" validate:"required"`
}

// TradesQuery bounds the trade list returned by the API.
type TradesQuery struct {
	Limit int `query:"limit" default:"50" validate:"gte=1,lte=500"`
}
