package stock

import "github.com/dmayasari/optikpos-backend/internal/inventory"

type MovementResponse struct {
	Before int `json:"before"`
	After  int `json:"after"`
}

func newMovement(mv inventory.Movement) MovementResponse {
	return MovementResponse{Before: mv.Before, After: mv.After}
}
