// file: internals/helpers/auth/claims.go
package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

/* =========================================================
   CLAIM READERS
   AuthMiddleware menaruh klaim ke c.Locals; semua controller
   membaca lewat helper ini, tidak pernah parse token sendiri.
========================================================= */

const (
	LocUserID   = "user_id"
	LocUserRole = "userRole"
	LocUserName = "user_name"
)

var (
	ErrNoUserID   = errors.New("user id not found in token")
	ErrNotStudent = errors.New("student role required")
	ErrNotTeacher = errors.New("teacher role required")
)

func GetUserUUID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals(LocUserID).(string)
	if !ok || strings.TrimSpace(raw) == "" {
		return uuid.Nil, ErrNoUserID
	}
	return uuid.Parse(raw)
}

func GetRole(c *fiber.Ctx) string {
	role, _ := c.Locals(LocUserRole).(string)
	return role
}

func IsStudent(c *fiber.Ctx) bool { return GetRole(c) == "student" }
func IsTeacher(c *fiber.Ctx) bool { return GetRole(c) == "teacher" }
func IsAdmin(c *fiber.Ctx) bool   { return GetRole(c) == "admin" }

// GetStudentUUID: user id dari token, khusus role student.
// Student TIDAK bisa bertindak atas nama student lain — id selalu dari token.
func GetStudentUUID(c *fiber.Ctx) (uuid.UUID, error) {
	if !IsStudent(c) {
		return uuid.Nil, ErrNotStudent
	}
	return GetUserUUID(c)
}

// GetTeacherUUID: user id dari token untuk role teacher/admin.
func GetTeacherUUID(c *fiber.Ctx) (uuid.UUID, error) {
	if !IsTeacher(c) && !IsAdmin(c) {
		return uuid.Nil, ErrNotTeacher
	}
	return GetUserUUID(c)
}
