package requests

// PassRequest triggers a manual promotion pass.
type PassRequest struct {
	SquadronID *int64 `json:"squadron_id"`
	Date       string `json:"date"`
}
