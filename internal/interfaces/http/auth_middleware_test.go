package http_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	pkgjwt "github.com/jhoicas/stock-ledger/pkg/jwt"
)

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testUserID     = "00000000-0000-0000-0000-000000000001"
	testLocationID = "HO"
	testIssuer     = "stock-ledger-test"
)

// tokenFor firma un token para la sede y el rol indicados, válido por expMin minutos.
func tokenFor(t *testing.T, secret, location, role string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(secret, testUserID, location, role, testIssuer, expMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// tokenForRole token de un usuario de la sede HO.
func tokenForRole(t *testing.T, role string) string {
	return tokenFor(t, testJWTSecret, testLocationID, role, 60)
}

func commitFrom(number, from string) dto.CommitTransferRequest {
	return dto.CommitTransferRequest{
		TransferNumber: number,
		FromLocation:   from,
		ToLocation:     "Branch1",
		Reason:         "reposicion",
		Lines:          []dto.TransferLineRequest{serialLine("P1", "S1")},
	}
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var e dto.ErrorResponse
	decode(t, resp, &e)
	return e.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_TokenRechazado(t *testing.T) {
	app := buildAPI(t)
	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"sin esquema Bearer", "Token abc", "INVALID_TOKEN"},
		{"firma con otro secreto", tokenFor(t, "otro-secreto", testLocationID, pkgjwt.RoleAdmin, 60), "INVALID_TOKEN"},
		{"expirado", tokenFor(t, testJWTSecret, testLocationID, pkgjwt.RoleAdmin, -5), "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := callWithAuth(t, app, http.MethodGet, "/api/stock/summary", tc.header, nil)
			require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tc.code, errorCode(t, resp))
		})
	}
}

func TestAuth_EsquemaBearerSinDistinguirMayusculas(t *testing.T) {
	app := buildAPI(t)
	header := "bearer " + tokenForRole(t, pkgjwt.RoleVendedor)[len("Bearer "):]
	resp := callWithAuth(t, app, http.MethodGet, "/api/stock/summary", header, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuth_TokenSinRolNoConfirma(t *testing.T) {
	app := buildAPI(t)
	resp := callWithAuth(t, app, http.MethodPost, "/api/transfers",
		tokenFor(t, testJWTSecret, testLocationID, "", 60), commitFrom("TR-AUTH-0", "HO"))
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_ROLE", errorCode(t, resp))
}

// ──────────────────────────────────────────────────────────────────────────────
// Sede del token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_BodegueroSoloTrasladaDesdeSuSede(t *testing.T) {
	app := buildAPI(t)

	resp := callWithAuth(t, app, http.MethodPost, "/api/transfers",
		tokenFor(t, testJWTSecret, "Branch1", pkgjwt.RoleBodeguero, 60), commitFrom("TR-AUTH-1", "HO"))
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN_LOCATION", errorCode(t, resp))

	resp = call(t, app, http.MethodGet, "/api/transfers/TR-AUTH-1", pkgjwt.RoleVendedor, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, "un rechazo no deja registro")

	resp = callWithAuth(t, app, http.MethodPost, "/api/transfers",
		tokenFor(t, testJWTSecret, "HO", pkgjwt.RoleBodeguero, 60), commitFrom("TR-AUTH-1", " HO "))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestAuth_BodegueroSinSedeNoConfirma(t *testing.T) {
	app := buildAPI(t)
	resp := callWithAuth(t, app, http.MethodPost, "/api/transfers",
		tokenFor(t, testJWTSecret, "", pkgjwt.RoleBodeguero, 60), commitFrom("TR-AUTH-2", "HO"))
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN_LOCATION", errorCode(t, resp))
}

func TestAuth_AdminTrasladaDesdeCualquierSede(t *testing.T) {
	app := buildAPI(t)
	resp := callWithAuth(t, app, http.MethodPost, "/api/transfers",
		tokenFor(t, testJWTSecret, "Branch1", pkgjwt.RoleAdmin, 60), commitFrom("TR-AUTH-3", "HO"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var out dto.CommitTransferResponse
	decode(t, resp, &out)
	assert.Equal(t, "TR-AUTH-3", out.TransferNumber)
}

// ──────────────────────────────────────────────────────────────────────────────
// pkg/jwt
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_ParseDevuelveSedeYRol(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "Branch1", pkgjwt.RoleBodeguero, testIssuer, 60)
	require.NoError(t, err)

	userID, location, role, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, userID)
	assert.Equal(t, "Branch1", location)
	assert.Equal(t, pkgjwt.RoleBodeguero, role)

	_, err = pkgjwt.Generate("", testUserID, "Branch1", pkgjwt.RoleBodeguero, testIssuer, 60)
	assert.Error(t, err)
}
