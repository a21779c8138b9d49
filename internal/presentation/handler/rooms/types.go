package rooms

// roomResponse is the REST view of a single listing.
type roomResponse struct {
	Code             string `json:"code"`
	Host             string `json:"host"`
	Map              string `json:"map"`
	Mode             string `json:"mode"`
	CreatedAt        string `json:"createdAt"`
	ExpiresAt        string `json:"expiresAt"`
	RemainingSeconds int64  `json:"remainingSeconds"`
}

type listRoomsResponse struct {
	Rooms []roomResponse `json:"rooms"`
	Count int            `json:"count"`
}

// actionResponse reports the outcome of a delete, extend, or duplicate.
type actionResponse struct {
	Verb    string        `json:"verb"`
	Code    string        `json:"code"`
	Outcome string        `json:"outcome"`
	Room    *roomResponse `json:"room,omitempty"`
}
