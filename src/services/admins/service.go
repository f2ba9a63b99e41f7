package admins

import (
	"context"
	"errors"

	"Backend-Claim3000/src/database"
	"Backend-Claim3000/src/models"
	"Backend-Claim3000/src/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// findAdmin is swappable in tests.
var findAdmin = func(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := database.AdminCollection.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// Authenticate checks an admin login and returns a signed token. Wrong
// email and wrong password produce the same error.
func Authenticate(ctx context.Context, email, password string) (string, *models.Admin, error) {
	admin, err := findAdmin(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if admin == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(admin.ID.Hex(), admin.Email, admin.Role)
	if err != nil {
		return "", nil, err
	}
	return token, admin, nil
}
