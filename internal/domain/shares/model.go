package shares

import "time"

// AccessType define qué puede hacer el médico con el token.
// @Enum READ, EXPORT
type AccessType string

const (
	AccessRead   AccessType = "READ"
	AccessExport AccessType = "EXPORT"
)

func (a AccessType) Valid() bool {
	return a == AccessRead || a == AccessExport
}

// Outcome es el resultado de un intento de validación (queda en el audit log).
type Outcome string

const (
	OutcomeGranted        Outcome = "GRANTED"
	OutcomeDeniedExpired  Outcome = "DENIED_EXPIRED"
	OutcomeDeniedInactive Outcome = "DENIED_INACTIVE"
	OutcomeDeniedLimit    Outcome = "DENIED_LIMIT"
	OutcomeDeniedNotFound Outcome = "DENIED_NOT_FOUND"
)

// ShareToken es la credencial corta que el paciente entrega al médico (QR o manual).
type ShareToken struct {
	ID      string
	Token   string
	OwnerID string

	// Inmutable después de emitir.
	RecordIDs  []string
	AccessType AccessType

	// Datos opcionales del destinatario.
	DoctorName  string
	DoctorEmail string
	Institution string

	ExpiresAt   time.Time
	MaxAccess   int
	AccessCount int
	IsActive    bool

	LastAccessedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	RevokedAt      *time.Time
}

// AccessorMeta describe a quien presenta el token.
type AccessorMeta struct {
	IP        string
	UserAgent string
}

// AccessLogEntry es append-only: un registro por intento contra un token existente.
type AccessLogEntry struct {
	ID                string
	ShareTokenID      string
	AccessedAt        time.Time
	AccessorIP        string
	AccessorUserAgent string
	Outcome           Outcome
}

// UnmatchedAttempt registra tokens que no existen (monitoreo de fuerza bruta).
type UnmatchedAttempt struct {
	ID                string
	AttemptedToken    string
	AttemptedAt       time.Time
	AccessorIP        string
	AccessorUserAgent string
}

// LogEntry es la fila de auditoría que acompaña al intento (sin token al que colgarla).
func (a UnmatchedAttempt) LogEntry() AccessLogEntry {
	return AccessLogEntry{
		ID:                a.ID,
		AccessedAt:        a.AttemptedAt,
		AccessorIP:        a.AccessorIP,
		AccessorUserAgent: a.AccessorUserAgent,
		Outcome:           OutcomeDeniedNotFound,
	}
}

// AuthorizedAccess es lo único que sale del validador hacia el projector.
type AuthorizedAccess struct {
	Token      string
	OwnerID    string
	RecordIDs  []string
	AccessType AccessType
	ExpiresAt  time.Time
}

// CanExport: el chequeo que repite cualquier operación de exportación.
func (a AuthorizedAccess) CanExport() bool {
	return a.AccessType == AccessExport
}
