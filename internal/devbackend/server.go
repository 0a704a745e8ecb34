// Package devbackend is an in-memory implementation of the REST backend the
// web application talks to. It serves local development and tests; nothing
// survives a restart.
package devbackend

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Options seeds the store.
type Options struct {
	AdminDNI      string
	AdminPassword string
	// Rooms are created at startup, capacity 20 each.
	Rooms []string
}

// Server owns the in-memory state and its HTTP routes.
type Server struct {
	st  *store
	log zerolog.Logger
}

// New returns a Server seeded with opts.
func New(opts Options, log zerolog.Logger) (*Server, error) {
	s := &Server{st: newStore(), log: log}
	if opts.AdminDNI != "" {
		if _, err := s.st.addUser(opts.AdminDNI, "Administrador", "admin@turnos.local", opts.AdminPassword, "admin"); err != nil {
			return nil, err
		}
	}
	for _, name := range opts.Rooms {
		r := &sala{ID: s.st.id(), Nombre: name, Capacidad: 20}
		s.st.salas[r.ID] = r
	}
	return s, nil
}

// Handler returns the echo instance serving the REST contract.
func (s *Server) Handler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Recover())

	e.POST("/usuarios/auth/login", s.login)
	e.POST("/usuarios/auth/register", s.register)
	e.POST("/usuarios/auth/logout", s.logout)
	e.POST("/usuarios/auth/forgot-password", s.forgotPassword)
	e.POST("/usuarios/auth/reset-password", s.resetPassword)
	e.GET("/usuarios/dni/:dni", s.userByDNI)
	e.GET("/usuarios/:id", s.getUser)
	e.PUT("/usuarios/:id", s.updateUser, s.requireToken)

	e.GET("/salas", s.listSalas)
	e.POST("/salas", s.createSala, s.requireToken)
	e.DELETE("/salas/:id", s.deleteSala, s.requireToken)

	e.GET("/turnos/full/all", s.listTurnos)
	e.POST("/turnos", s.createTurno, s.requireToken)
	e.PUT("/turnos/:id", s.updateTurno, s.requireToken)

	e.POST("/invitados", s.createInvitado, s.requireToken)
	e.PUT("/invitados/:id", s.updateInvitado, s.requireToken)
	return e
}

// requireToken rejects writes that do not carry a token issued by login.
func (s *Server) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearer(c)

		s.st.mu.Lock()
		_, ok := s.st.sessions[token]
		s.st.mu.Unlock()

		if token == "" || !ok {
			return fail(c, http.StatusUnauthorized, "Sesión inválida o expirada")
		}
		return next(c)
	}
}

func bearer(c echo.Context) string {
	return strings.TrimPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
}

// AddUser registers a user directly; used by tests and seeding.
func (s *Server) AddUser(dni, name, email, password, role string) (int64, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	u, err := s.st.addUser(dni, name, email, password, role)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

// InvitationCount returns how many invitation rows exist for a shift.
func (s *Server) InvitationCount(turnoID int64) int {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	return len(s.st.invitadosOf(turnoID))
}

// ResetTokenFor returns the pending reset token of email, if any.
func (s *Server) ResetTokenFor(email string) string {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	u := s.st.userByEmail(email)
	if u == nil {
		return ""
	}
	for tok, id := range s.st.resetTokens {
		if id == u.ID {
			return tok
		}
	}
	return ""
}

type messageBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, messageBody{Message: msg})
}

func failFields(c echo.Context, msg string, fields map[string][]string) error {
	return c.JSON(http.StatusBadRequest, messageBody{Message: msg, Errors: fields})
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil
}

// ── auth ──────────────────────────────────────────────────────────────────────

func (s *Server) login(c echo.Context) error {
	var req struct {
		DNI      string `json:"dni"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	u := s.st.userByDNI(req.DNI)
	if u == nil || bcrypt.CompareHashAndPassword(u.passwordHash, []byte(req.Password)) != nil {
		return fail(c, http.StatusUnauthorized, "DNI o contraseña incorrectos")
	}
	token := uuid.NewString()
	s.st.sessions[token] = u.ID
	return c.JSON(http.StatusOK, map[string]any{"usuario": u, "token": token})
}

func (s *Server) register(c echo.Context) error {
	var req struct {
		DNI            string `json:"dni"`
		NombreCompleto string `json:"nombre_completo"`
		Email          string `json:"email"`
		Password       string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}
	fields := map[string][]string{}
	if req.DNI == "" {
		fields["dni"] = []string{"El DNI es obligatorio"}
	}
	if req.Email == "" {
		fields["email"] = []string{"El email es obligatorio"}
	}
	if len(req.Password) < 6 {
		fields["password"] = []string{"La contraseña debe tener al menos 6 caracteres"}
	}
	if len(fields) > 0 {
		return failFields(c, "Datos de registro inválidos", fields)
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if s.st.userByDNI(req.DNI) != nil {
		return fail(c, http.StatusConflict, "El DNI ya está registrado")
	}
	if s.st.userByEmail(req.Email) != nil {
		return fail(c, http.StatusConflict, "El email ya está registrado")
	}
	u, err := s.st.addUser(req.DNI, req.NombreCompleto, req.Email, req.Password, "user")
	if err != nil {
		return fail(c, http.StatusInternalServerError, "No se pudo registrar el usuario")
	}
	return c.JSON(http.StatusCreated, u)
}

func (s *Server) logout(c echo.Context) error {
	token := bearer(c)

	s.st.mu.Lock()
	delete(s.st.sessions, token)
	s.st.mu.Unlock()

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) forgotPassword(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if u := s.st.userByEmail(req.Email); u != nil {
		token := uuid.NewString()
		s.st.resetTokens[token] = u.ID
		s.log.Info().Str("email", req.Email).Str("reset_token", token).Msg("password reset requested")
	}
	// Same answer whether or not the email exists.
	return c.JSON(http.StatusOK, messageBody{Message: "Si el email existe, se envió un enlace de recuperación"})
}

func (s *Server) resetPassword(c echo.Context) error {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}
	if len(req.Password) < 6 {
		return failFields(c, "Contraseña inválida", map[string][]string{"password": {"La contraseña debe tener al menos 6 caracteres"}})
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	id, ok := s.st.resetTokens[req.Token]
	if !ok {
		return fail(c, http.StatusBadRequest, "El enlace de recuperación es inválido o expiró")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "No se pudo actualizar la contraseña")
	}
	s.st.users[id].passwordHash = hash
	delete(s.st.resetTokens, req.Token)
	return c.JSON(http.StatusOK, messageBody{Message: "Contraseña actualizada"})
}

// ── usuarios ──────────────────────────────────────────────────────────────────

func (s *Server) getUser(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "Id inválido")
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	u, ok := s.st.users[id]
	if !ok {
		return fail(c, http.StatusNotFound, "Usuario no encontrado")
	}
	return c.JSON(http.StatusOK, u)
}

func (s *Server) userByDNI(c echo.Context) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	u := s.st.userByDNI(c.Param("dni"))
	if u == nil {
		return fail(c, http.StatusNotFound, "Usuario no encontrado")
	}
	return c.JSON(http.StatusOK, u)
}

func (s *Server) updateUser(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "Id inválido")
	}
	var req struct {
		NombreCompleto *string `json:"nombre_completo"`
		Email          *string `json:"email"`
		FotoPerfil     *string `json:"foto_perfil"`
		PasswordActual string  `json:"password_actual"`
		Password       string  `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	u, ok := s.st.users[id]
	if !ok {
		return fail(c, http.StatusNotFound, "Usuario no encontrado")
	}

	if req.Password != "" {
		if bcrypt.CompareHashAndPassword(u.passwordHash, []byte(req.PasswordActual)) != nil {
			return failFields(c, "La contraseña actual es incorrecta", map[string][]string{"current_password": {"La contraseña actual es incorrecta"}})
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "No se pudo actualizar la contraseña")
		}
		u.passwordHash = hash
	}
	if req.Email != nil && *req.Email != u.Email {
		if other := s.st.userByEmail(*req.Email); other != nil {
			return fail(c, http.StatusConflict, "El email ya está registrado")
		}
		u.Email = *req.Email
	}
	if req.NombreCompleto != nil {
		u.NombreCompleto = *req.NombreCompleto
	}
	if req.FotoPerfil != nil {
		u.FotoPerfil = *req.FotoPerfil
	}
	return c.JSON(http.StatusOK, u)
}

// ── salas ─────────────────────────────────────────────────────────────────────

func (s *Server) listSalas(c echo.Context) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	out := make([]*sala, 0, len(s.st.salas))
	for _, id := range sortedIDs(s.st.salas) {
		out = append(out, s.st.salas[id])
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createSala(c echo.Context) error {
	var req sala
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}
	req.Nombre = strings.TrimSpace(req.Nombre)
	if req.Nombre == "" || req.Capacidad < 1 {
		return failFields(c, "Datos de sala inválidos", map[string][]string{"nombre": {"Nombre y capacidad son obligatorios"}})
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if s.st.salaNamed(req.Nombre) != nil {
		return fail(c, http.StatusConflict, "Ya existe una sala con ese nombre")
	}
	r := &sala{ID: s.st.id(), Nombre: req.Nombre, Capacidad: req.Capacidad}
	s.st.salas[r.ID] = r
	return c.JSON(http.StatusCreated, r)
}

func (s *Server) deleteSala(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "Id inválido")
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if _, ok := s.st.salas[id]; !ok {
		return fail(c, http.StatusNotFound, "Sala no encontrada")
	}
	delete(s.st.salas, id)
	return c.NoContent(http.StatusNoContent)
}

// ── turnos ────────────────────────────────────────────────────────────────────

type creadorView struct {
	ID             int64  `json:"id"`
	DNI            string `json:"dni"`
	NombreCompleto string `json:"nombre_completo"`
}

type turnoView struct {
	*turno
	Creador   *creadorView `json:"creador,omitempty"`
	Invitados []*invitado  `json:"invitados"`
}

func (s *Server) view(t *turno) turnoView {
	v := turnoView{turno: t, Invitados: s.st.invitadosOf(t.ID)}
	if v.Invitados == nil {
		v.Invitados = []*invitado{}
	}
	if u, ok := s.st.users[t.UsuarioID]; ok {
		v.Creador = &creadorView{ID: u.ID, DNI: u.DNI, NombreCompleto: u.NombreCompleto}
	}
	return v
}

func (s *Server) listTurnos(c echo.Context) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	out := make([]turnoView, 0, len(s.st.turnos))
	for _, id := range sortedIDs(s.st.turnos) {
		out = append(out, s.view(s.st.turnos[id]))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createTurno(c echo.Context) error {
	var req turno
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}
	fields := map[string][]string{}
	for name, v := range map[string]string{"fecha": req.Fecha, "hora_inicio": req.HoraInicio, "hora_fin": req.HoraFin, "tematica": req.Tematica, "area": req.Area} {
		if strings.TrimSpace(v) == "" {
			fields[name] = []string{"Campo obligatorio"}
		}
	}
	if len(fields) > 0 {
		return failFields(c, "Datos del turno inválidos", fields)
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if _, ok := s.st.users[req.UsuarioID]; !ok {
		return fail(c, http.StatusBadRequest, "Usuario creador inexistente")
	}
	if s.st.salaNamed(req.Area) == nil {
		return failFields(c, "La sala no existe", map[string][]string{"area": {"La sala no existe"}})
	}
	if req.Estado == "" {
		req.Estado = "pendiente"
	}
	t := req
	t.ID = s.st.id()
	s.st.turnos[t.ID] = &t
	return c.JSON(http.StatusCreated, s.view(&t))
}

func (s *Server) updateTurno(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "Id inválido")
	}
	// Observaciones may be cleared, so its presence is what counts.
	var req struct {
		turno
		Observaciones *string `json:"observaciones"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	t, ok := s.st.turnos[id]
	if !ok {
		return fail(c, http.StatusNotFound, "Turno no encontrado")
	}
	if req.Area != "" && s.st.salaNamed(req.Area) == nil {
		return failFields(c, "La sala no existe", map[string][]string{"area": {"La sala no existe"}})
	}
	setIf(&t.Fecha, req.Fecha)
	setIf(&t.HoraInicio, req.HoraInicio)
	setIf(&t.HoraFin, req.HoraFin)
	setIf(&t.Tematica, req.Tematica)
	if req.Observaciones != nil {
		t.Observaciones = *req.Observaciones
	}
	setIf(&t.Area, req.Area)
	setIf(&t.Estado, req.Estado)
	if req.CantidadParticipantes > 0 {
		t.CantidadParticipantes = req.CantidadParticipantes
	}
	return c.JSON(http.StatusOK, s.view(t))
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// ── invitados ─────────────────────────────────────────────────────────────────

func (s *Server) createInvitado(c echo.Context) error {
	var req invitado
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if _, ok := s.st.turnos[req.TurnoID]; !ok {
		return fail(c, http.StatusNotFound, "Turno no encontrado")
	}
	u, ok := s.st.users[req.UsuarioID]
	if !ok {
		return fail(c, http.StatusNotFound, "Usuario no encontrado")
	}
	for _, inv := range s.st.invitadosOf(req.TurnoID) {
		if inv.UsuarioID == req.UsuarioID {
			return fail(c, http.StatusConflict, "El usuario ya está invitado")
		}
	}
	if req.Estado == "" {
		req.Estado = "pendiente"
	}
	inv := &invitado{ID: s.st.id(), TurnoID: req.TurnoID, UsuarioID: u.ID, DNI: u.DNI, Estado: req.Estado}
	s.st.invitados[inv.ID] = inv
	return c.JSON(http.StatusCreated, inv)
}

func (s *Server) updateInvitado(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return fail(c, http.StatusBadRequest, "Id inválido")
	}
	var req struct {
		Estado string `json:"estado"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Solicitud inválida")
	}
	switch req.Estado {
	case "pendiente", "aceptado", "rechazado":
	default:
		return failFields(c, "Estado inválido", map[string][]string{"estado": {"Estado inválido"}})
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	inv, ok := s.st.invitados[id]
	if !ok {
		return fail(c, http.StatusNotFound, "Invitación no encontrada")
	}
	inv.Estado = req.Estado
	return c.JSON(http.StatusOK, inv)
}
