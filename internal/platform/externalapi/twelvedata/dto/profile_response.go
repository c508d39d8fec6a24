package dto

import "encoding/json"

// ProfileResponse represents the JSON response from the Twelve Data profile endpoint.
type ProfileResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
	Website  string `json:"website"`
	Country  string `json:"country"`
	Type     string `json:"type"`
}

// FundSummaryResponse represents the JSON response from the mutual_funds/world/summary endpoint.
type FundSummaryResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	MutualFund struct {
		Summary struct {
			Symbol         string      `json:"symbol"`
			Name           string      `json:"name"`
			FundFamily     string      `json:"fund_family"`
			FundType       string      `json:"fund_type"`
			Currency       string      `json:"currency"`
			ShareClassSize string      `json:"share_class_size"`
			Exchange       string      `json:"exchange"`
			NetAssets      json.Number `json:"net_assets"`
			NAV            json.Number `json:"nav"`
		} `json:"summary"`
	} `json:"mutual_fund"`
}
