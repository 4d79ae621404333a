package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           int64
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         Role
	CreatedAt    pgtype.Timestamptz
}

type Tag struct {
	ID    int64
	Name  string
	Color string
	Slug  string
}

type Ingredient struct {
	ID              int64
	Name            string
	MeasurementUnit string
}

type Recipe struct {
	ID          int64
	AuthorID    int64
	Name        string
	ImageUrl    pgtype.Text
	Text        string
	CookingTime int32
	PubDate     pgtype.Timestamptz
}

type Amount struct {
	ID           int64
	RecipeID     int64
	IngredientID int64
	Amount       int32
}
