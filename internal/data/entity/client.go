package entity

import "github.com/google/uuid"

type Client struct {
	Base
	UserID  uuid.UUID `db:"user_id"`
	Name    string    `db:"name"`
	Email   string    `db:"email"`
	Phone   *string   `db:"phone"`
	Address *string   `db:"address"`
	GSTID   *string   `db:"gst_id"`
}
