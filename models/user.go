package models

type User struct {
	ID         int     `json:"id" db:"id"`
	FirstName  string  `json:"first_name" db:"first_name"`
	SecondName *string `json:"second_name,omitempty" db:"second_name"`
	Surname    string  `json:"surname" db:"surname"`
}
