package trainer

type Trainer struct {
	ID    int    `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

type CreateTrainerRequest struct {
	Name  string `json:"name" binding:"required,max=120" example:"Dana Reyes"`
	Email string `json:"email" binding:"required,email,max=120" example:"dana@fitclub.example"`
}
