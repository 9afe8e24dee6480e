package model

// Activity is a scoring rule: logging Activity is worth Score points.
type Activity struct {
	ID       ID     `json:"id"`
	Activity string `json:"activity" validate:"required"`
	Role     Role   `json:"role" validate:"role"`
	Score    int    `json:"score" validate:"gte=0"`
}
