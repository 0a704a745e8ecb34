package backend

import (
	"strconv"
	"strings"

	"github.com/dcic-turnos/turnos-web/internal/core/domain"
)

// flexString decodes both JSON strings and numbers; the backend sends DNIs either way.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = ""
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		*f = flexString(unq)
		return nil
	}
	*f = flexString(s)
	return nil
}

type usuarioWire struct {
	ID             int64      `json:"id"`
	DNI            flexString `json:"dni"`
	NombreCompleto string     `json:"nombre_completo"`
	Email          string     `json:"email"`
	Rol            string     `json:"rol"`
	FotoPerfil     string     `json:"foto_perfil,omitempty"`
}

func (u usuarioWire) toDomain() domain.User {
	return domain.User{
		ID:             u.ID,
		DNI:            string(u.DNI),
		FullName:       u.NombreCompleto,
		Email:          u.Email,
		Role:           domain.NormalizeRole(u.Rol),
		ProfilePicture: u.FotoPerfil,
	}
}

type loginRequest struct {
	DNI      string `json:"dni"`
	Password string `json:"password"`
}

type loginResponse struct {
	Usuario *usuarioWire `json:"usuario"`
	User    *usuarioWire `json:"user"`
	Token   string       `json:"token"`
}

type registerRequest struct {
	DNI            string `json:"dni"`
	NombreCompleto string `json:"nombre_completo"`
	Email          string `json:"email"`
	Password       string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	NombreCompleto *string `json:"nombre_completo,omitempty"`
	Email          *string `json:"email,omitempty"`
	FotoPerfil     *string `json:"foto_perfil,omitempty"`
	PasswordActual string  `json:"password_actual,omitempty"`
	Password       string  `json:"password,omitempty"`
}

type salaWire struct {
	ID        int64  `json:"id"`
	Nombre    string `json:"nombre"`
	Capacidad int    `json:"capacidad"`
}

func (s salaWire) toDomain() domain.Room {
	return domain.Room{ID: s.ID, Name: s.Nombre, Capacity: s.Capacidad}
}

type createSalaRequest struct {
	Nombre    string `json:"nombre"`
	Capacidad int    `json:"capacidad"`
}

type creadorWire struct {
	ID             int64      `json:"id"`
	DNI            flexString `json:"dni"`
	NombreCompleto string     `json:"nombre_completo"`
	Nombre         string     `json:"nombre"`
}

type invitadoWire struct {
	ID        int64        `json:"id"`
	TurnoID   int64        `json:"turno_id"`
	UsuarioID int64        `json:"usuario_id"`
	DNI       flexString   `json:"dni"`
	Estado    string       `json:"estado"`
	Usuario   *usuarioWire `json:"usuario,omitempty"`
}

func (i invitadoWire) toDomain(shiftID int64) domain.Invitation {
	inv := domain.Invitation{
		ID:      i.ID,
		ShiftID: i.TurnoID,
		UserID:  i.UsuarioID,
		DNI:     string(i.DNI),
		Status:  domain.ParseInvitationStatus(i.Estado),
	}
	if inv.ShiftID == 0 {
		inv.ShiftID = shiftID
	}
	if i.Usuario != nil {
		if inv.DNI == "" {
			inv.DNI = string(i.Usuario.DNI)
		}
		if inv.UserID == 0 {
			inv.UserID = i.Usuario.ID
		}
	}
	return inv
}

type turnoWire struct {
	ID                    int64          `json:"id"`
	Fecha                 string         `json:"fecha"`
	HoraInicio            string         `json:"hora_inicio"`
	HoraFin               string         `json:"hora_fin"`
	Tematica              string         `json:"tematica"`
	CantidadParticipantes int            `json:"cantidad_participantes"`
	Observaciones         string         `json:"observaciones"`
	Area                  string         `json:"area"`
	Estado                string         `json:"estado"`
	UsuarioID             int64          `json:"usuario_id"`
	Creador               *creadorWire   `json:"creador,omitempty"`
	Invitados             []invitadoWire `json:"invitados"`
}

func (t turnoWire) toDomain() domain.Shift {
	s := domain.Shift{
		ID:           t.ID,
		Date:         clip(t.Fecha, len(domain.DateLayout)),
		StartTime:    clip(t.HoraInicio, len(domain.TimeLayout)),
		EndTime:      clip(t.HoraFin, len(domain.TimeLayout)),
		Theme:        t.Tematica,
		Participants: t.CantidadParticipantes,
		Notes:        t.Observaciones,
		Area:         t.Area,
		Status:       domain.ParseShiftStatus(t.Estado),
		Creator:      domain.Creator{ID: t.UsuarioID},
		Invitations:  make([]domain.Invitation, 0, len(t.Invitados)),
	}
	if c := t.Creador; c != nil {
		if c.ID != 0 {
			s.Creator.ID = c.ID
		}
		s.Creator.DNI = string(c.DNI)
		s.Creator.Name = c.NombreCompleto
		if s.Creator.Name == "" {
			s.Creator.Name = c.Nombre
		}
	}
	for _, inv := range t.Invitados {
		s.Invitations = append(s.Invitations, inv.toDomain(t.ID))
	}
	return s
}

// turnoRequest is the body of POST /turnos and PUT /turnos/{id}. PUT only
// sends the fields being changed; Observaciones is a pointer so an edit can
// clear it.
type turnoRequest struct {
	Fecha                 string  `json:"fecha,omitempty"`
	HoraInicio            string  `json:"hora_inicio,omitempty"`
	HoraFin               string  `json:"hora_fin,omitempty"`
	Tematica              string  `json:"tematica,omitempty"`
	CantidadParticipantes int     `json:"cantidad_participantes,omitempty"`
	Observaciones         *string `json:"observaciones,omitempty"`
	Area                  string  `json:"area,omitempty"`
	Estado                string  `json:"estado,omitempty"`
	UsuarioID             int64   `json:"usuario_id,omitempty"`
}

type createInvitadoRequest struct {
	TurnoID   int64  `json:"turno_id"`
	UsuarioID int64  `json:"usuario_id"`
	Estado    string `json:"estado"`
}

type updateInvitadoRequest struct {
	Estado string `json:"estado"`
}

// clip trims ISO timestamps ("2025-05-12T00:00:00Z", "10:00:00") to the
// layout length used by forms.
func clip(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return s[:n]
	}
	return s
}
