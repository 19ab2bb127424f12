package model

type Patient struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Age       int    `db:"age" json:"age"`
	Condition string `db:"condition" json:"condition"`
}

type CreatePatientRequest struct {
	Name      string `json:"name" binding:"required"`
	Age       int    `json:"age" binding:"gte=0,lte=150"`
	Condition string `json:"condition"`
}
