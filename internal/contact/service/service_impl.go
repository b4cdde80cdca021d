package service

import (
	"context"
	"strings"
	"time"

	"github.com/atendely/flowhook/internal/config"
	"github.com/atendely/flowhook/internal/contact/domain"
	"github.com/atendely/flowhook/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// minPhoneDigits is the precondition below which contact resolution is
// skipped entirely.
const minPhoneDigits = 10

const defaultContactName = "Cliente"

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Cfg   config.Config
	Repo  domain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	countryCode string
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("contact.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		countryCode: p.Cfg.DefaultCountryCode,
	}
}

func (s *Service) Resolve(ctx context.Context, req domain.ResolveRequest) (*domain.Contact, error) {
	number := NormalizeNumber(req.RawPhone, s.countryCode)
	if number == "" {
		s.log.Debug("contact resolution skipped, phone too short",
			zap.String("raw_phone", req.RawPhone))
		return nil, nil
	}

	existing, err := s.repo.FindByNumber(ctx, s.db, req.CompanyID, number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = defaultContactName
	}

	now := time.Now().UTC()
	contact := domain.Contact{
		ID:        s.genID.Generate(),
		CompanyID: req.CompanyID,
		Number:    number,
		Name:      name,
		Email:     strings.TrimSpace(req.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &contact); err != nil {
		// Two deliveries for the same customer can race on the
		// unique (company, number) key; the loser re-reads.
		if db.IsDuplicateKeyErr(err) {
			return s.repo.FindByNumber(ctx, s.db, req.CompanyID, number)
		}
		return nil, err
	}

	s.log.Info("contact created",
		zap.String("contact_id", contact.ID.String()),
		zap.String("number", number))

	return &contact, nil
}

// NormalizeNumber strips non-digit characters and prefixes the default
// country code when missing. It returns "" when the cleaned number has
// fewer than the minimum digits.
func NormalizeNumber(raw, countryCode string) string {
	cleaned := digits(raw)
	if len(cleaned) < minPhoneDigits {
		return ""
	}
	if countryCode != "" && !strings.HasPrefix(cleaned, countryCode) {
		cleaned = countryCode + cleaned
	}
	return cleaned
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
