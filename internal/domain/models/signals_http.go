package models

// Requests for the signal HTTP endpoints. The timeframe tag accepts any
// label ParseTimeframe does.

type OpportunitiesRequest struct {
	Action string `query:"action" json:"action" validate:"omitempty,oneof=buy sell hold"`
}

type SignalsRequest struct {
	Instrument string `query:"instrument" json:"instrument"`
	Limit      int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}

type AnalyzeRequest struct {
	Instrument string              `json:"instrument" validate:"required"`
	Bars       map[Timeframe][]Bar `json:"bars" validate:"required,min=1"`
}

type BarsRequest struct {
	Instrument string `query:"instrument" json:"instrument" validate:"required"`
	Timeframe  string `query:"timeframe" json:"timeframe" validate:"required,timeframe"`
	Limit      int    `query:"limit" json:"limit" default:"200" validate:"gte=1,lte=5000"`
}
