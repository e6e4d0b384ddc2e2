package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/vacutrack/vacutrack-api/internal/application/dto"
	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
	"github.com/vacutrack/vacutrack-api/pkg/jwt"
)

// Locals keys para los datos del token en Fiber.
const (
	LocalUserID     = "user_id"
	LocalOwnerLevel = "owner_level"
	LocalOwnerID    = "owner_id"
	LocalRole       = "role"
)

// AuthMiddleware valida el Bearer Token JWT y extrae el usuario y su
// alcance administrativo (nivel, id) a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		scope := entity.Owner{Level: entity.OwnerLevel(claims.OwnerLevel), ID: claims.OwnerID}
		if !scope.Validate() {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "alcance del token inválido"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalOwnerLevel, claims.OwnerLevel)
		c.Locals(LocalOwnerID, claims.OwnerID)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetScope devuelve el alcance administrativo del llamante. Todos los casos
// de uso del núcleo lo reciben como argumento explícito: nada lee estado
// ambiente, la autoridad siempre viaja en la firma.
func GetScope(c *fiber.Ctx) entity.Owner {
	level, _ := c.Locals(LocalOwnerLevel).(string)
	id, _ := c.Locals(LocalOwnerID).(string)
	return entity.Owner{Level: entity.OwnerLevel(level), ID: id}
}

// RequireLevel exige que el token pertenezca a un nivel concreto.
func RequireLevel(level entity.OwnerLevel) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetScope(c).Level != level {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "nivel insuficiente para la operación"})
		}
		return c.Next()
	}
}
