package devbackend

import (
	"sort"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

type user struct {
	ID             int64  `json:"id"`
	DNI            string `json:"dni"`
	NombreCompleto string `json:"nombre_completo"`
	Email          string `json:"email"`
	Rol            string `json:"rol"`
	FotoPerfil     string `json:"foto_perfil,omitempty"`
	passwordHash   []byte
}

type sala struct {
	ID        int64  `json:"id"`
	Nombre    string `json:"nombre"`
	Capacidad int    `json:"capacidad"`
}

type turno struct {
	ID                    int64  `json:"id"`
	Fecha                 string `json:"fecha"`
	HoraInicio            string `json:"hora_inicio"`
	HoraFin               string `json:"hora_fin"`
	Tematica              string `json:"tematica"`
	CantidadParticipantes int    `json:"cantidad_participantes"`
	Observaciones         string `json:"observaciones"`
	Area                  string `json:"area"`
	Estado                string `json:"estado"`
	UsuarioID             int64  `json:"usuario_id"`
}

type invitado struct {
	ID        int64  `json:"id"`
	TurnoID   int64  `json:"turno_id"`
	UsuarioID int64  `json:"usuario_id"`
	DNI       string `json:"dni"`
	Estado    string `json:"estado"`
}

// store is the in-memory state. Every exported method of Server takes mu.
type store struct {
	mu          sync.Mutex
	nextID      int64
	users       map[int64]*user
	salas       map[int64]*sala
	turnos      map[int64]*turno
	invitados   map[int64]*invitado
	sessions    map[string]int64
	resetTokens map[string]int64
}

func newStore() *store {
	return &store{
		users:       make(map[int64]*user),
		salas:       make(map[int64]*sala),
		turnos:      make(map[int64]*turno),
		invitados:   make(map[int64]*invitado),
		sessions:    make(map[string]int64),
		resetTokens: make(map[string]int64),
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *store) userByDNI(dni string) *user {
	for _, u := range s.users {
		if u.DNI == dni {
			return u
		}
	}
	return nil
}

func (s *store) userByEmail(email string) *user {
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (s *store) addUser(dni, name, email, password, role string) (*user, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &user{
		ID:             s.id(),
		DNI:            dni,
		NombreCompleto: name,
		Email:          email,
		Rol:            role,
		passwordHash:   hash,
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *store) salaNamed(name string) *sala {
	for _, r := range s.salas {
		if r.Nombre == name {
			return r
		}
	}
	return nil
}

func (s *store) invitadosOf(turnoID int64) []*invitado {
	var out []*invitado
	for _, inv := range s.invitados {
		if inv.TurnoID == turnoID {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
