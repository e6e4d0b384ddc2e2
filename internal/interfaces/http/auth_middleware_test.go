package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vacutrack/vacutrack-api/internal/domain/entity"
	apphttp "github.com/vacutrack/vacutrack-api/internal/interfaces/http"
	pkgjwt "github.com/vacutrack/vacutrack-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testRegionID  = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "vacutrack-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequireLevel para exigir un nivel administrativo
//   - Un handler dummy que devuelve el alcance si pasa los middlewares
func buildTestApp(requiredLevel entity.OwnerLevel) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireLevel(requiredLevel),
		func(c *fiber.Ctx) error {
			scope := apphttp.GetScope(c)
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":          true,
				"owner_level": string(scope.Level),
				"owner_id":    scope.ID,
			})
		},
	)
	return app
}

// tokenForScope genera un JWT con el alcance indicado.
func tokenForScope(t *testing.T, level entity.OwnerLevel, ownerID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, string(level), ownerID, "operator", testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireLevel
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: token nacional en ruta restringida a nivel nacional → HTTP 200.
func TestRequireLevel_NacionalAccedeRutaNacional(t *testing.T) {
	app := buildTestApp(entity.LevelNational)
	resp := doRequest(t, app, tokenForScope(t, entity.LevelNational, entity.NationalID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"el nivel nacional debe poder acceder a ruta restringida a nacional")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, string(entity.LevelNational), body["owner_level"])
}

// Caso 2: token regional en ruta restringida a nacional → HTTP 403 Forbidden.
func TestRequireLevel_RegionalBloqueadoEnRutaNacional(t *testing.T) {
	app := buildTestApp(entity.LevelNational)
	resp := doRequest(t, app, tokenForScope(t, entity.LevelRegional, testRegionID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"un token regional no debe acceder a ruta restringida a nacional")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN",
		"la respuesta de error debe incluir el código FORBIDDEN")
}

// Caso 3: token con nivel desconocido → HTTP 401 (alcance inválido).
func TestAuthMiddleware_NivelDesconocido_Retorna401(t *testing.T) {
	app := buildTestApp(entity.LevelRegional)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "PROVINCE", testRegionID, "operator", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"un nivel administrativo desconocido invalida el token")
}

// Caso 4: sin header Authorization → HTTP 401 MISSING_TOKEN.
func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(entity.LevelNational)
	resp := doRequest(t, app, "") // sin header
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Caso 5: token inválido / malformado → HTTP 401 INVALID_TOKEN.
func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(entity.LevelNational)
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware — extracción del alcance del token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtractaAlcance(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		scope := apphttp.GetScope(c)
		return c.JSON(fiber.Map{
			"user_id":     apphttp.GetUserID(c),
			"owner_level": string(scope.Level),
			"owner_id":    scope.ID,
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForScope(t, entity.LevelDistrict, "distrito-7"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, string(entity.LevelDistrict), body["owner_level"])
	assert.Equal(t, "distrito-7", body["owner_id"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests JWT pkg — integridad del generate/parse con alcance
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse_ConAlcance(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, string(entity.LevelHealthCenter), "centro-42", "operator", testIssuer, testExpMin)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)

	assert.Equal(t, testUserID, claims.UserID)
	assert.Equal(t, string(entity.LevelHealthCenter), claims.OwnerLevel)
	assert.Equal(t, "centro-42", claims.OwnerID)
	assert.Equal(t, "operator", claims.Role)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	// Token con expiración -1 minuto (ya expirado)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, string(entity.LevelNational), entity.NationalID, "operator", testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, string(entity.LevelNational), entity.NationalID, "operator", testIssuer, testExpMin)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}
