package entity

import "time"

// Client representa un cliente facturable.
type Client struct {
	ID        string
	Name      string
	Address   string
	Email     string
	Phone     string
	NCC       string // vacío para particulares (B2C)
	CreatedAt time.Time
}
