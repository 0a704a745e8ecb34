package devbackend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(Options{AdminDNI: "30000000", AdminPassword: "admin123", Rooms: []string{"Sala 1"}}, zerolog.Nop())
	require.NoError(t, err)
	return s
}

func send(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	return sendAs(t, s, "", method, path, body)
}

func sendAs(t *testing.T, s *Server, token, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func login(t *testing.T, s *Server, dni, password string) string {
	t.Helper()
	rec, out := send(t, s, http.MethodPost, "/usuarios/auth/login", `{"dni":"`+dni+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := out["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	rec, out := send(t, s, http.MethodPost, "/usuarios/auth/login", `{"dni":"30000000","password":"admin123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, out["token"])
	usuario, ok := out["usuario"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "admin", usuario["rol"])
	assert.NotContains(t, rec.Body.String(), "password")

	rec, _ = send(t, s, http.MethodPost, "/usuarios/auth/login", `{"dni":"30000000","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterRejectsDuplicateDNI(t *testing.T) {
	s := newTestServer(t)
	body := `{"dni":"30111222","nombre_completo":"Ana","email":"ana@example.com","password":"secret1"}`

	rec, _ := send(t, s, http.MethodPost, "/usuarios/auth/register", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = send(t, s, http.MethodPost, "/usuarios/auth/register", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	s := newTestServer(t)

	rec, _ := send(t, s, http.MethodPost, "/usuarios/auth/forgot-password", `{"email":"admin@turnos.local"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	token := s.ResetTokenFor("admin@turnos.local")
	require.NotEmpty(t, token)

	rec, _ = send(t, s, http.MethodPost, "/usuarios/auth/reset-password", `{"token":"`+token+`","password":"nueva123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = send(t, s, http.MethodPost, "/usuarios/auth/login", `{"dni":"30000000","password":"nueva123"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = send(t, s, http.MethodPost, "/usuarios/auth/reset-password", `{"token":"`+token+`","password":"otra123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "tokens are single use")
}

func TestTurnoWithInvitados(t *testing.T) {
	s := newTestServer(t)
	guestID, err := s.AddUser("4555666", "Bruno", "bruno@example.com", "secret2", "user")
	require.NoError(t, err)
	token := login(t, s, "30000000", "admin123")

	rec, out := sendAs(t, s, token, http.MethodPost, "/turnos",
		`{"fecha":"2026-05-04","hora_inicio":"09:00","hora_fin":"10:00","tematica":"Tesis","cantidad_participantes":2,"area":"Sala 1","usuario_id":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "pendiente", out["estado"])
	turnoID := int64(out["id"].(float64))

	body := `{"turno_id":` + jsonInt(turnoID) + `,"usuario_id":` + jsonInt(guestID) + `}`
	rec, out = sendAs(t, s, token, http.MethodPost, "/invitados", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "4555666", out["dni"])
	invPath := "/invitados/" + jsonInt(int64(out["id"].(float64)))
	rec, _ = sendAs(t, s, token, http.MethodPost, "/invitados", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 1, s.InvitationCount(turnoID))

	rec, _ = sendAs(t, s, token, http.MethodPut, invPath, `{"estado":"quizas"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, out = sendAs(t, s, token, http.MethodPut, invPath, `{"estado":"aceptado"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "aceptado", out["estado"])

	rec, _ = send(t, s, http.MethodGet, "/turnos/full/all", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var turnos []struct {
		Creador   struct{ DNI string }   `json:"creador"`
		Invitados []struct{ DNI string } `json:"invitados"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &turnos))
	require.Len(t, turnos, 1)
	assert.Equal(t, "30000000", turnos[0].Creador.DNI)
	require.Len(t, turnos[0].Invitados, 1)
	assert.Equal(t, "4555666", turnos[0].Invitados[0].DNI)
}

func TestTurnoUnknownSala(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "30000000", "admin123")

	rec, out := sendAs(t, s, token, http.MethodPost, "/turnos",
		`{"fecha":"2026-05-04","hora_inicio":"09:00","hora_fin":"10:00","tematica":"Tesis","area":"Sótano","usuario_id":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, out, "errors")
}

func TestSalas(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "30000000", "admin123")

	rec, _ := send(t, s, http.MethodPost, "/salas", `{"nombre":"Sala 2","capacidad":8}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = sendAs(t, s, token, http.MethodPost, "/salas", `{"nombre":" Sala 1 ","capacidad":8}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, out := sendAs(t, s, token, http.MethodPost, "/salas", `{"nombre":"Sala 2","capacidad":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, out, "errors")

	rec, out = sendAs(t, s, token, http.MethodPost, "/salas", `{"nombre":"Sala 2","capacidad":8}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	path := "/salas/" + jsonInt(int64(out["id"].(float64)))

	rec, _ = sendAs(t, s, token, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = sendAs(t, s, token, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateUserChecksCurrentPassword(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "30000000", "admin123")

	rec, out := sendAs(t, s, token, http.MethodPut, "/usuarios/1", `{"password_actual":"nope","password":"nueva123"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs, ok := out["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "current_password")

	rec, out = sendAs(t, s, token, http.MethodPut, "/usuarios/1", `{"nombre_completo":"Admin Turnos"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Admin Turnos", out["nombre_completo"])

	rec, _ = send(t, s, http.MethodGet, "/usuarios/dni/30000000", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = send(t, s, http.MethodGet, "/usuarios/dni/11111111", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTurnoUpdateClearsObservaciones(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "30000000", "admin123")

	rec, out := sendAs(t, s, token, http.MethodPost, "/turnos",
		`{"fecha":"2026-05-04","hora_inicio":"09:00","hora_fin":"10:00","tematica":"Tesis","observaciones":"traer proyector","area":"Sala 1","usuario_id":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	path := "/turnos/" + jsonInt(int64(out["id"].(float64)))

	rec, out = sendAs(t, s, token, http.MethodPut, path, `{"estado":"aceptado"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "traer proyector", out["observaciones"], "absent keys leave the value alone")

	rec, out = sendAs(t, s, token, http.MethodPut, path, `{"observaciones":""}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", out["observaciones"])
	assert.Equal(t, "aceptado", out["estado"])
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "30000000", "admin123")

	rec, _ := sendAs(t, s, token, http.MethodPost, "/usuarios/auth/logout", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = sendAs(t, s, token, http.MethodPost, "/salas", `{"nombre":"Sala 9","capacidad":4}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
