package catalog

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sharath018/business-directory-backend/internal/apperr"
)

type Service struct {
	repo     Repository
	uploader *Uploader
	log      zerolog.Logger
}

func NewService(repo Repository, uploader *Uploader, log zerolog.Logger) *Service {
	return &Service{repo: repo, uploader: uploader, log: log.With().Str("component", "catalog").Logger()}
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-"), "-")
}

func slugOrName(slug, name string) string {
	if s := Slugify(slug); s != "" {
		return s
	}
	return Slugify(name)
}

// ReferenceExists reports whether a category, zone, plan or media row with
// the given id exists.
func (s *Service) ReferenceExists(ctx context.Context, kind string, id uint) (bool, error) {
	ok, err := s.repo.Exists(ctx, kind, id)
	if err != nil {
		return false, apperr.Store("check "+kind, err)
	}
	return ok, nil
}

// ---- categories ----

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	out, err := s.repo.ListCategories(ctx)
	return out, apperr.Store("list categories", err)
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	c := &Category{}
	if err := applyCategory(c, in); err != nil {
		return nil, err
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, apperr.Store("create category", err)
	}
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*Category, error) {
	c, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		return nil, apperr.Store("find category", err)
	}
	if err := applyCategory(c, in); err != nil {
		return nil, err
	}
	if err := s.repo.SaveCategory(ctx, c); err != nil {
		return nil, apperr.Store("update category", err)
	}
	return c, nil
}

func applyCategory(c *Category, in CategoryInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return apperr.Validation("name is required")
	}
	c.Name = name
	c.Slug = slugOrName(in.Slug, name)
	c.Icon = strings.TrimSpace(in.Icon)
	c.Description = strings.TrimSpace(in.Description)
	return nil
}

// ---- zones ----

func (s *Service) ListZones(ctx context.Context) ([]Zone, error) {
	out, err := s.repo.ListZones(ctx)
	return out, apperr.Store("list zones", err)
}

func (s *Service) CreateZone(ctx context.Context, in ZoneInput) (*Zone, error) {
	z := &Zone{}
	if err := applyZone(z, in); err != nil {
		return nil, err
	}
	if err := s.repo.CreateZone(ctx, z); err != nil {
		return nil, apperr.Store("create zone", err)
	}
	return z, nil
}

func (s *Service) UpdateZone(ctx context.Context, id uint, in ZoneInput) (*Zone, error) {
	z, err := s.repo.FindZone(ctx, id)
	if err != nil {
		return nil, apperr.Store("find zone", err)
	}
	if err := applyZone(z, in); err != nil {
		return nil, err
	}
	if err := s.repo.SaveZone(ctx, z); err != nil {
		return nil, apperr.Store("update zone", err)
	}
	return z, nil
}

func applyZone(z *Zone, in ZoneInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return apperr.Validation("name is required")
	}
	z.Name = name
	z.Slug = slugOrName(in.Slug, name)
	z.Description = strings.TrimSpace(in.Description)
	return nil
}

// ---- plans ----

func (s *Service) ListPlans(ctx context.Context, activeOnly bool) ([]BusinessPlan, error) {
	out, err := s.repo.ListPlans(ctx, activeOnly)
	return out, apperr.Store("list plans", err)
}

func (s *Service) GetPlan(ctx context.Context, id uint) (*BusinessPlan, error) {
	p, err := s.repo.FindPlan(ctx, id)
	if err != nil {
		return nil, apperr.Store("find plan", err)
	}
	return p, nil
}

func (s *Service) CreatePlan(ctx context.Context, in PlanInput) (*BusinessPlan, error) {
	p := &BusinessPlan{IsActive: true}
	if err := applyPlan(p, in); err != nil {
		return nil, err
	}
	if err := s.repo.CreatePlan(ctx, p); err != nil {
		return nil, apperr.Store("create plan", err)
	}
	return p, nil
}

func (s *Service) UpdatePlan(ctx context.Context, id uint, in PlanInput) (*BusinessPlan, error) {
	p, err := s.repo.FindPlan(ctx, id)
	if err != nil {
		return nil, apperr.Store("find plan", err)
	}
	if err := applyPlan(p, in); err != nil {
		return nil, err
	}
	if err := s.repo.SavePlan(ctx, p); err != nil {
		return nil, apperr.Store("update plan", err)
	}
	return p, nil
}

func applyPlan(p *BusinessPlan, in PlanInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return apperr.Validation("name is required")
	}
	if in.Price < 0 || in.DurationDays < 0 {
		return apperr.Validation("price and duration_days must not be negative")
	}
	features := in.Features
	if features == nil {
		features = []string{}
	}
	raw, err := json.Marshal(features)
	if err != nil {
		return apperr.Validation("invalid features")
	}

	p.Name = name
	p.Slug = slugOrName(in.Slug, name)
	p.Price = in.Price
	p.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if p.Currency == "" {
		p.Currency = "INR"
	}
	p.DurationDays = in.DurationDays
	p.Features = raw
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	return nil
}

// ---- media ----

func (s *Service) UploadMedia(ctx context.Context, file *multipart.FileHeader) (*Media, error) {
	m, err := s.uploader.Save(file)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	if err := s.repo.CreateMedia(ctx, m); err != nil {
		s.uploader.Remove(m.FileName)
		return nil, apperr.Store("create media", err)
	}
	s.log.Info().Uint("media_id", m.ID).Str("mime", m.MimeType).Int64("size", m.Size).Msg("media uploaded")
	return m, nil
}

func (s *Service) GetMedia(ctx context.Context, id uint) (*Media, error) {
	m, err := s.repo.FindMedia(ctx, id)
	if err != nil {
		return nil, apperr.Store("find media", err)
	}
	return m, nil
}
