package server

import (
	"crypto/subtle"

	"mealslan/internal/auth"
	"mealslan/internal/middleware"
	"mealslan/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Account endpoint failure codes beyond the shared statusError.
const (
	statusEmailTaken   = 3
	statusPolicyReject = 4
)

// CreateUser handles POST /create_user. The response always carries HTTP 200
// with the outcome in the status field: 1 success, 2 duplicate username,
// 3 duplicate email, 4 missing or policy-rejected input. On success the
// stored credential digest is echoed back, otherwise pass_hash is "NULL".
func (s *Server) CreateUser(c *fiber.Ctx) error {
	firstName := postParam(c, "first_name")
	lastName := postParam(c, "last_name")
	username := postParam(c, "username")
	email := postParam(c, "email_address")
	password := postParam(c, "password")
	salt := postParam(c, "salt")

	policyReject := func() error {
		return c.JSON(fiber.Map{"status": statusPolicyReject, "pass_hash": nullValue})
	}

	if firstName == "" || lastName == "" || username == "" || email == "" || password == "" || salt == "" {
		return policyReject()
	}

	for _, field := range []string{firstName, lastName, username, email, password, salt} {
		if len(field) > models.MaxFieldLen {
			return policyReject()
		}
	}

	if !auth.ValidatePassword(password, username, firstName, lastName) {
		return policyReject()
	}

	passHash := auth.HashPassword(password, salt)
	user := &models.User{
		FirstName: firstName,
		LastName:  lastName,
		Username:  username,
		Email:     email,
		PassHash:  passHash,
		Salt:      salt,
	}

	if err := s.userRepo.Create(c.UserContext(), user); err != nil {
		switch models.CodeOf(err) {
		case models.CodeUsernameTaken:
			return c.JSON(fiber.Map{"status": statusError, "pass_hash": nullValue})
		case models.CodeEmailTaken:
			return c.JSON(fiber.Map{"status": statusEmailTaken, "pass_hash": nullValue})
		default:
			middleware.Logger.ErrorContext(c.UserContext(), "user creation failed", "error", err)
			return policyReject()
		}
	}

	return c.JSON(fiber.Map{"status": statusOK, "pass_hash": passHash})
}

// Login handles POST /login. A successful login returns a signed bearer
// token; every failure mode collapses to status 2 with jwt "NULL" so the
// response does not reveal whether the username exists.
func (s *Server) Login(c *fiber.Ctx) error {
	username := postParam(c, "username")
	password := postParam(c, "password")

	reject := func() error {
		return c.JSON(fiber.Map{"status": statusError, "jwt": nullValue})
	}

	if username == "" || password == "" {
		return reject()
	}

	user, err := s.userRepo.GetByUsername(c.UserContext(), username)
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "login lookup failed", "error", err)
		return reject()
	}
	if user == nil {
		return reject()
	}

	computed := auth.HashPassword(password, user.Salt)
	if subtle.ConstantTimeCompare([]byte(computed), []byte(user.PassHash)) != 1 {
		return reject()
	}

	token, err := s.codec.Issue(username)
	if err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "token issuance failed", "error", err)
		return reject()
	}

	return c.JSON(fiber.Map{"status": statusOK, "jwt": token})
}

// DeleteAccount handles POST /delete. A user may only delete their own
// account; the cascade removes their recipes, ingredient entries, likes in
// both directions, and follow edges atomically.
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	actor := c.Locals("username").(string)

	target := postParam(c, "username")
	if target == "" || target != actor {
		return c.JSON(fiber.Map{"status": statusError})
	}

	if err := s.userRepo.DeleteCascade(c.UserContext(), target); err != nil {
		if models.CodeOf(err) == models.CodeInternal {
			middleware.Logger.ErrorContext(c.UserContext(), "account deletion failed", "error", err)
		}
		return c.JSON(fiber.Map{"status": statusError})
	}

	middleware.Logger.InfoContext(c.UserContext(), "account deleted", "username", target)
	return c.JSON(fiber.Map{"status": statusOK})
}
