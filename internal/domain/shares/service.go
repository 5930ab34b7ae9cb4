package shares

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vidalink/internal/domain/healthevents"
	"vidalink/internal/platform/logger"
	"vidalink/internal/platform/metrics"

	"github.com/google/uuid"
)

const (
	MinExpiresInHours = 1 // exclusivo
	MaxExpiresInHours = 168
	MinMaxAccess      = 1
	MaxMaxAccess      = 100

	// maxAttemptedTokenLen acota lo que se guarda de tokens inexistentes.
	maxAttemptedTokenLen = 64
)

// RecordAuthority verifica que los eventos pertenezcan al paciente.
// Lo implementa healthevents.Service; la interfaz evita acoplar el issuer al repo.
type RecordAuthority interface {
	VerifyOwnership(ctx context.Context, ownerID string, ids []string) error
}

type Service struct {
	store   Store
	audit   AuditLog
	records RecordAuthority
	log     logger.Logger

	now      func() time.Time
	newToken TokenGenerator
}

func NewService(store Store, audit AuditLog, records RecordAuthority, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:    store,
		audit:    audit,
		records:  records,
		log:      log,
		now:      time.Now,
		newToken: GenerateToken,
	}
}

type IssueInput struct {
	OwnerID        string
	RecordIDs      []string
	AccessType     AccessType
	ExpiresInHours int
	MaxAccess      int

	DoctorName  string
	DoctorEmail string
	Institution string
}

func (s *Service) Issue(ctx context.Context, in IssueInput) (ShareToken, error) {
	ownerID := strings.TrimSpace(in.OwnerID)
	if ownerID == "" {
		return ShareToken{}, ErrInvalidParameters
	}
	if !in.AccessType.Valid() {
		return ShareToken{}, ErrInvalidParameters
	}
	if in.ExpiresInHours <= MinExpiresInHours || in.ExpiresInHours > MaxExpiresInHours {
		return ShareToken{}, ErrInvalidParameters
	}
	if in.MaxAccess < MinMaxAccess || in.MaxAccess > MaxMaxAccess {
		return ShareToken{}, ErrInvalidParameters
	}

	recordIDs := normalizeRecordIDs(in.RecordIDs)
	if len(recordIDs) == 0 {
		return ShareToken{}, ErrInvalidParameters
	}

	if err := s.records.VerifyOwnership(ctx, ownerID, recordIDs); err != nil {
		// Cualquier fallo que no sea de infraestructura se reporta como ownership.
		if isOwnershipFailure(err) {
			return ShareToken{}, ErrInvalidRecordOwnership
		}
		return ShareToken{}, fmt.Errorf("verify record ownership: %w", err)
	}

	now := s.now()
	t := ShareToken{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		RecordIDs:   recordIDs,
		AccessType:  in.AccessType,
		DoctorName:  strings.TrimSpace(in.DoctorName),
		DoctorEmail: strings.TrimSpace(in.DoctorEmail),
		Institution: strings.TrimSpace(in.Institution),
		ExpiresAt:   now.Add(time.Duration(in.ExpiresInHours) * time.Hour),
		MaxAccess:   in.MaxAccess,
		AccessCount: 0,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for attempt := 1; ; attempt++ {
		if attempt > maxGenerateAttempts {
			s.log.Error("share token generation exhausted", map[string]any{"owner_id": ownerID})
			return ShareToken{}, ErrTokenGenerationExhausted
		}

		tok, err := s.newToken()
		if err != nil {
			return ShareToken{}, err
		}
		t.Token = tok

		err = s.store.Create(ctx, t)
		if err == nil {
			break
		}
		if errors.Is(err, ErrTokenTaken) {
			metrics.TokenCollisions.Inc()
			s.log.Warn("share token collision, regenerating", map[string]any{"attempt": attempt})
			continue
		}
		return ShareToken{}, fmt.Errorf("create share: %w", err)
	}

	metrics.SharesIssued.WithLabelValues(string(t.AccessType)).Inc()
	s.log.Info("share issued", map[string]any{
		"share_id":    t.ID,
		"owner_id":    t.OwnerID,
		"records":     len(t.RecordIDs),
		"access_type": string(t.AccessType),
		"max_access":  t.MaxAccess,
		"expires_at":  t.ExpiresAt,
	})
	return t, nil
}

// Validate aplica la máquina de estados en orden estricto:
// NOT_FOUND, INACTIVE, EXPIRED, LIMIT y recién ahí el incremento condicional.
// Cada intento deja exactamente un registro de auditoría; el de un GRANTED
// lo escribe el store junto con el incremento.
func (s *Service) Validate(ctx context.Context, token string, meta AccessorMeta) (AuthorizedAccess, error) {
	now := s.now()

	// Un token mal formado no puede existir: ni se consulta el store.
	var t ShareToken
	err := ErrNotFound
	if IsWellFormedToken(token) {
		t, err = s.store.GetByToken(ctx, token)
	}
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return AuthorizedAccess{}, fmt.Errorf("lookup share: %w", err)
		}
		if err := s.recordUnmatched(ctx, token, meta, now); err != nil {
			return AuthorizedAccess{}, err
		}
		return AuthorizedAccess{}, s.deny(OutcomeDeniedNotFound, "", meta)
	}

	outcome := evaluate(t, now)
	if outcome == OutcomeGranted {
		consumed, err := s.store.ConsumeAccess(ctx, t.ID, now, newLogEntry(t.ID, OutcomeGranted, meta, now))
		switch {
		case err == nil:
			return s.granted(consumed, meta), nil
		case errors.Is(err, ErrConditionFailed):
			// Otro validador ganó la carrera (o revocaron en el medio): re-clasificar.
			fresh, gerr := s.store.GetByID(ctx, t.ID)
			if gerr != nil {
				return AuthorizedAccess{}, fmt.Errorf("reload share: %w", gerr)
			}
			outcome = evaluate(fresh, now)
			if outcome == OutcomeGranted {
				// El store rechazó pero la foto dice que pasa: tratamos como límite.
				outcome = OutcomeDeniedLimit
			}
		default:
			s.log.Error("consume access failed", map[string]any{"share_id": t.ID, "err": err})
			return AuthorizedAccess{}, fmt.Errorf("consume access: %w", err)
		}
	}

	// Las denegaciones no tocan el token: basta con la fila de auditoría.
	if err := s.recordAttempt(ctx, newLogEntry(t.ID, outcome, meta, now)); err != nil {
		return AuthorizedAccess{}, err
	}
	return AuthorizedAccess{}, s.deny(outcome, t.ID, meta)
}

// Revoke es idempotente: revocar un token inactivo no es error.
func (s *Service) Revoke(ctx context.Context, ownerID, shareID string) error {
	ownerID = strings.TrimSpace(ownerID)
	shareID = strings.TrimSpace(shareID)
	if ownerID == "" || shareID == "" {
		return ErrInvalidParameters
	}

	t, err := s.store.GetByID(ctx, shareID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup share: %w", err)
	}
	if t.OwnerID != ownerID {
		return ErrForbidden
	}
	if !t.IsActive {
		return nil
	}

	if err := s.store.Deactivate(ctx, t.ID, s.now()); err != nil {
		return fmt.Errorf("deactivate share: %w", err)
	}

	metrics.SharesRevoked.Inc()
	s.log.Info("share revoked", map[string]any{"share_id": t.ID, "owner_id": ownerID})
	return nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]ShareToken, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrInvalidParameters
	}
	return s.store.ListByOwner(ctx, ownerID)
}

// AccessLog devuelve la auditoría de un token al dueño, en cualquier estado del token.
func (s *Service) AccessLog(ctx context.Context, ownerID, shareID string) ([]AccessLogEntry, error) {
	ownerID = strings.TrimSpace(ownerID)
	shareID = strings.TrimSpace(shareID)
	if ownerID == "" || shareID == "" {
		return nil, ErrInvalidParameters
	}

	t, err := s.store.GetByID(ctx, shareID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup share: %w", err)
	}
	if t.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return s.audit.ListByShare(ctx, t.ID)
}

func isOwnershipFailure(err error) bool {
	return errors.Is(err, healthevents.ErrNotOwned) ||
		errors.Is(err, healthevents.ErrInvalidInput) ||
		errors.Is(err, ErrInvalidRecordOwnership)
}

// evaluate clasifica un snapshot del token sin mutarlo.
func evaluate(t ShareToken, now time.Time) Outcome {
	switch {
	case !t.IsActive:
		return OutcomeDeniedInactive
	case !now.Before(t.ExpiresAt):
		return OutcomeDeniedExpired
	case t.AccessCount >= t.MaxAccess:
		return OutcomeDeniedLimit
	default:
		return OutcomeGranted
	}
}

func (s *Service) granted(t ShareToken, meta AccessorMeta) AuthorizedAccess {
	metrics.ShareValidations.WithLabelValues(string(OutcomeGranted)).Inc()
	s.log.Info("share access granted", map[string]any{
		"share_id":     t.ID,
		"access_count": t.AccessCount,
		"max_access":   t.MaxAccess,
		"ip":           meta.IP,
	})
	return AuthorizedAccess{
		Token:      t.Token,
		OwnerID:    t.OwnerID,
		RecordIDs:  append([]string(nil), t.RecordIDs...),
		AccessType: t.AccessType,
		ExpiresAt:  t.ExpiresAt,
	}
}

func newLogEntry(shareID string, outcome Outcome, meta AccessorMeta, now time.Time) AccessLogEntry {
	return AccessLogEntry{
		ID:                uuid.NewString(),
		ShareTokenID:      shareID,
		AccessedAt:        now,
		AccessorIP:        meta.IP,
		AccessorUserAgent: meta.UserAgent,
		Outcome:           outcome,
	}
}

func (s *Service) recordAttempt(ctx context.Context, e AccessLogEntry) error {
	if err := s.audit.Append(ctx, e); err != nil {
		s.log.Error("append access log failed", map[string]any{"share_id": e.ShareTokenID, "outcome": string(e.Outcome), "err": err})
		return fmt.Errorf("append access log: %w", err)
	}
	return nil
}

func (s *Service) recordUnmatched(ctx context.Context, token string, meta AccessorMeta, now time.Time) error {
	if len(token) > maxAttemptedTokenLen {
		token = token[:maxAttemptedTokenLen]
	}
	err := s.audit.AppendUnmatched(ctx, UnmatchedAttempt{
		ID:                uuid.NewString(),
		AttemptedToken:    token,
		AttemptedAt:       now,
		AccessorIP:        meta.IP,
		AccessorUserAgent: meta.UserAgent,
	})
	if err != nil {
		s.log.Error("append unmatched attempt failed", map[string]any{"err": err})
		return fmt.Errorf("append unmatched attempt: %w", err)
	}
	return nil
}

func (s *Service) deny(outcome Outcome, shareID string, meta AccessorMeta) error {
	metrics.ShareValidations.WithLabelValues(string(outcome)).Inc()
	s.log.Warn("share access denied", map[string]any{
		"share_id": shareID,
		"outcome":  string(outcome),
		"ip":       meta.IP,
	})
	return &DenialError{Reason: outcome}
}

// normalizeRecordIDs: trim + dedupe manteniendo el orden de primera aparición.
func normalizeRecordIDs(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
